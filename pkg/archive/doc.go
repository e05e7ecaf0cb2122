// Package archive assembles the zip archive handed to downstream tooling.
//
// An archive holds three kinds of entries:
//
//	serialized_complete_graph.yaml   the rooted supercluster document
//	<target dir>/<file name>         every mapped artifact
//	unlocking_conditions.json        the compiled condition map
//
// Every entry is stored uncompressed with unix mode 0755, and no timestamps
// are recorded, so identical inputs produce byte-identical archives. Use
// [Digest] to fingerprint the result.
//
// # Usage
//
//	a := archive.New()
//	if err := a.AddGraph(rs); err != nil { ... }
//	if err := a.AddArtifacts(ctx, reader, mappings); err != nil { ... }
//	if err := a.AddConditions(cm); err != nil { ... }
//	data, err := a.Finish()
//
// An Assembler is not safe for concurrent use.
package archive
