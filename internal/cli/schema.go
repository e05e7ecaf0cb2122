package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/pipeline"
)

// schemaCommand prints the options schema, the CLI form of get_params_schema.
func (c *CLI) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the options schema of the archive builder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(pipeline.GetParamsSchema(), "", "  ")
			if err != nil {
				return err
			}
			return c.writeOutput("", append(data, '\n'))
		},
	}
}
