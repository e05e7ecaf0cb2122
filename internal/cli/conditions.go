package cli

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/analysis"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/unlock"
)

// conditionsCommand prints the compiled unlocking conditions as the same
// JSON document the archive carries.
func (c *CLI) conditionsCommand() *cobra.Command {
	var output string
	var completed []string

	cmd := &cobra.Command{
		Use:   "conditions [file]",
		Short: "Compile and print the unlocking conditions of a payload or graph",
		Long: `Conditions compiles the unlocking condition of every node and prints the
unlocking_conditions.json document. With --completed, it instead lists the
non-completed nodes whose condition is satisfied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConditions(cmd.Context(), args[0], output, completed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&completed, "completed", nil, "completed node IDs; list what they unlock")

	return cmd
}

func (c *CLI) runConditions(ctx context.Context, input, output string, completed []string) error {
	logger := loggerFromContext(ctx)

	rs, err := loadSupercluster(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %s", input, describe(rs))

	prog := newProgress(logger)
	cm, err := compileConditions(rs)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compiled %d conditions", len(cm)))

	if completed != nil {
		return c.printUnlocked(rs, cm, completed)
	}

	var buf bytes.Buffer
	if err := unlock.WriteJSON(&buf, cm); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode conditions")
	}
	return c.writeOutput(output, buf.Bytes())
}

func compileConditions(rs *supercluster.RootedSupercluster) (unlock.ConditionMap, error) {
	cm, err := unlock.Compile(rs)
	if err != nil {
		if goerrors.Is(err, analysis.ErrCycle) {
			return nil, errors.Wrap(errors.ErrCodeCycle, err, "hard prerequisites contain a cycle")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile conditions")
	}
	return cm, nil
}

func (c *CLI) printUnlocked(rs *supercluster.RootedSupercluster, cm unlock.ConditionMap, completed []string) error {
	done := make(map[supercluster.NodeID]bool, len(completed))
	for _, s := range completed {
		id, err := supercluster.ParseNodeID(s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "--completed %q", s)
		}
		if !rs.Graph.Contains(id) {
			return errors.New(errors.ErrCodeInvalidInput, "--completed %q: no such node", s)
		}
		done[id] = true
	}
	isDone := func(id supercluster.NodeID) bool { return done[id] }

	for _, id := range cm.Unlocked(isDone) {
		fmt.Fprintln(c.Out, id)
	}
	return nil
}
