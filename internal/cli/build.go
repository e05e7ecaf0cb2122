package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/archive"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/config"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	out    string // write root override for the fs backend
	name   string // archive name override
	dryRun bool   // build without writing
}

// buildCommand creates the build command, the CLI form of process_paths.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [payload]",
		Short: "Build the archive for a payload file (JSON or YAML)",
		Long: `Build compiles the unlocking conditions of the payload's rooted supercluster
and writes an archive containing the graph, every mapped artifact and the
conditions through the configured host backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (fs backend)")
	cmd.Flags().StringVar(&opts.name, "name", "", "archive path relative to the output root (default "+pipeline.DefaultArchiveName+")")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "build the archive without writing it")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input string, opts buildOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.out != "" {
		cfg.Host.Backend = config.BackendFS
		cfg.Host.FS.WriteRoot = opts.out
	}
	if opts.name != "" {
		cfg.Archive.Name = opts.name
	}

	payload, err := pipeline.ImportPayload(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %s, %d artifacts", input, describe(payload.RootedSupercluster), len(payload.ArtifactMapping))

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var res *pipeline.Result
	if opts.dryRun {
		res, err = runner.Build(ctx, payload, runner.Host)
	} else {
		res, err = runner.ProcessPaths(ctx, payload)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %s", res.ArchiveName))

	return c.printBuild(res, cfg, opts.dryRun)
}

func (c *CLI) printBuild(res *pipeline.Result, cfg *config.Config, dryRun bool) error {
	w := c.Out
	if dryRun {
		printSuccess(w, "Built %s (dry run, not written)", StyleTitle.Render(res.ArchiveName))
	} else {
		printSuccess(w, "Wrote %s via %s host", StyleTitle.Render(res.ArchiveName), cfg.Host.Backend)
	}
	printKeyValue(w, "run", res.RunID)
	printKeyValue(w, "digest", res.Digest)
	printKeyValue(w, "size", fmt.Sprintf("%d bytes", res.Stats.ArchiveSize))
	printKeyValue(w, "time", res.Stats.Duration.Round(time.Millisecond).String())
	printStats(w,
		stat{res.Stats.NodeCount, "nodes"},
		stat{res.Stats.EdgeCount, "edges"},
		stat{res.Stats.RootCount, "roots"},
		stat{res.Stats.ConditionCount, "conditions"},
		stat{res.Stats.ArtifactCount, "artifacts"},
		stat{int(res.Stats.MemoHits), "memo hits"},
	)

	entries, err := archive.List(res.Archive)
	if err != nil {
		return err
	}
	for _, e := range entries {
		printFile(w, e.Name)
	}
	return nil
}
