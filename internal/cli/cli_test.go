package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/archive"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
)

const graphYAML = `nodes:
  - id: git__basics
    title: Basics
  - id: git__branches
    title: Branches
  - id: git__teamwork
    title: Teamwork
all_type_edges:
  - start_id: git__basics
    end_id: git__branches
any_type_edges:
  - start_id: git__teamwork
    end_id: git__branches
roots:
  - git__basics
  - git__teamwork
`

const wantConditions = `{
  "git__basics": null,
  "git__branches": {
    "all_of": [
      "git__basics"
    ],
    "one_of": [
      "git__teamwork"
    ]
  },
  "git__teamwork": null
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LBLP_CONFIG", "")
	t.Setenv("LBLP_HOST_BACKEND", "")
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{"build", "completion", "conditions", "graph", "render", "schema", "serve"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command should have a --config flag")
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema error: %v", err)
	}
	if out != "{\n  \"schema\": {}\n}\n" {
		t.Errorf("schema output = %q", out)
	}
}

func TestConditionsCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "course.yaml", graphYAML)

	out, err := execute(t, "conditions", path)
	if err != nil {
		t.Fatalf("conditions error: %v", err)
	}
	if diff := cmp.Diff(wantConditions, out); diff != "" {
		t.Errorf("conditions output mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionsCommand_Completed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "course.yaml", graphYAML)

	tests := []struct {
		completed string
		want      string
	}{
		{"git__basics", "git__teamwork\n"},
		{"git__basics,git__teamwork", "git__branches\n"},
	}
	for _, tt := range tests {
		t.Run(tt.completed, func(t *testing.T) {
			out, err := execute(t, "conditions", path, "--completed", tt.completed)
			if err != nil {
				t.Fatalf("conditions error: %v", err)
			}
			if out != tt.want {
				t.Errorf("unlocked = %q, want %q", out, tt.want)
			}
		})
	}

	_, err := execute(t, "conditions", path, "--completed", "git__ghost")
	if got := errors.StatusCode(err); got != errors.StatusInput {
		t.Errorf("unknown completed node status = %d, want %d", got, errors.StatusInput)
	}
}

func TestGraphCommand_RoundTrip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "course.yaml", graphYAML)

	out, err := execute(t, "graph", path)
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if diff := cmp.Diff(graphYAML, out); diff != "" {
		t.Errorf("graph output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommand_DOT(t *testing.T) {
	path := writeFile(t, t.TempDir(), "course.yaml", graphYAML)

	out, err := execute(t, "render", path, "--format", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{
		"digraph G {",
		`"git__basics" -> "git__branches";`,
		`"git__teamwork" -> "git__branches" [style=dashed];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestRenderCommand_InvalidFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "course.yaml", graphYAML)
	_, err := execute(t, "render", path, "--format", "pdf")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("render --format pdf error = %v, want UNSUPPORTED", err)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	intro := writeFile(t, dir, "src/basics/intro.html", "<h1>intro</h1>")
	payload := `{
  "rooted_supercluster": {
    "nodes": [{"id": "git__basics", "title": "Basics"}, {"id": "git__branches", "title": "Branches"}],
    "all_type_edges": [{"start_id": "git__basics", "end_id": "git__branches"}],
    "roots": ["git__basics"]
  },
  "artifact_mapping": [{"local_file": "` + filepath.ToSlash(intro) + `", "root_relative_target_dir": "git/basics"}]
}`
	input := writeFile(t, dir, "payload.json", payload)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "build", input, "--out", outDir)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(out, "git/basics/intro.html") {
		t.Errorf("build output should list archive entries, got:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "archive.zip"))
	if err != nil {
		t.Fatalf("archive not written: %v", err)
	}
	entries, err := archive.List(data)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{archive.GraphEntry, "git/basics/intro.html", archive.ConditionsEntry}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, archive.Digest(data)) {
		t.Error("build output should include the archive digest")
	}
}

func TestBuildCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "payload.yaml", "rooted_supercluster:\n"+indent(graphYAML)+"artifact_mapping: []\n")
	outDir := filepath.Join(dir, "out")

	if _, err := execute(t, "build", input, "--out", outDir, "--dry-run"); err != nil {
		t.Fatalf("build --dry-run error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "archive.zip")); !os.IsNotExist(err) {
		t.Errorf("dry run should not write the archive, stat error = %v", err)
	}
}

func TestBuildCommand_Failures(t *testing.T) {
	dir := t.TempDir()
	cyclic := `{
  "rooted_supercluster": {
    "nodes": [{"id": "a", "title": "A"}, {"id": "b", "title": "B"}],
    "all_type_edges": [{"start_id": "a", "end_id": "b"}, {"start_id": "b", "end_id": "a"}]
  },
  "artifact_mapping": []
}`
	missing := `{
  "rooted_supercluster": {"nodes": [{"id": "a", "title": "A"}], "roots": ["a"]},
  "artifact_mapping": [{"local_file": "/nonexistent/lblp/file.txt", "root_relative_target_dir": "a"}]
}`

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"no such payload", filepath.Join(dir, "absent.json"), errors.StatusRead},
		{"malformed payload", writeFile(t, dir, "bad.json", "{"), errors.StatusInput},
		{"cycle", writeFile(t, dir, "cyclic.json", cyclic), errors.StatusInput},
		{"missing artifact", writeFile(t, dir, "missing.json", missing), errors.StatusRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := filepath.Join(dir, "out-"+strings.ReplaceAll(tt.name, " ", "-"))
			_, err := execute(t, "build", tt.input, "--out", outDir)
			if got := errors.StatusCode(err); got != tt.want {
				t.Errorf("status = %d, want %d (err: %v)", got, tt.want, err)
			}
			if _, err := os.Stat(filepath.Join(outDir, "archive.zip")); !os.IsNotExist(err) {
				t.Error("failed build should not write an archive")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		want                  string
	}{
		{"", "course.yaml", "svg", "course.svg"},
		{"", "dir/payload.json", "dot", "dir/payload.dot"},
		{"out.svg", "course.yaml", "svg", "out.svg"},
		{"-", "course.yaml", "dot", "-"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
		}
	}
}

func indent(s string) string {
	lines := strings.SplitAfter(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "") + "\n"
}
