package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; derived from the input when empty
	format   string // "dot" or "svg"
	detailed bool   // show node IDs and condition sizes
}

// renderCommand draws the supercluster as a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a payload or graph as a node-link diagram",
		Long: `Render draws every node of the supercluster. Hard prerequisites are solid
edges, motivations are dashed and roots are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node IDs and condition sizes")

	return cmd
}

func validateFormat(f string) error {
	if f != formatDOT && f != formatSVG {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %s (must be 'svg' or 'dot')", f)
	}
	return nil
}

// outputPath derives the output path from the input file name when none
// is given.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	rs, err := loadSupercluster(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded graph: %s", describe(rs))

	nl := nodelink.Options{Detailed: opts.detailed}
	if opts.detailed {
		cm, err := compileConditions(rs)
		if err != nil {
			return err
		}
		nl.Conditions = cm
	}

	prog := newProgress(logger)
	data := []byte(nodelink.ToDOT(rs, nl))
	if opts.format == formatSVG {
		data, err = nodelink.RenderSVG(ctx, string(data))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
	}

	path := outputPath(opts.output, input, opts.format)
	if err := c.writeOutput(path, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", opts.format))
	if path != "-" {
		printFile(c.Out, path)
	}
	return nil
}
