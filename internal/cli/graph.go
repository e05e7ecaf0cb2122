package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	lblpio "github.com/v-nys/lblp-build-zip-plugin/pkg/io"
)

// graphCommand prints the normalised graph document, exactly as it is
// stored in the archive.
func (c *CLI) graphCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Print the serialized graph document of a payload or graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input, output string) error {
	rs, err := loadSupercluster(input)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debugf("Loaded %s: %s", input, describe(rs))

	var buf bytes.Buffer
	if err := lblpio.WriteGraphYAML(&buf, rs); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return c.writeOutput(output, buf.Bytes())
}
