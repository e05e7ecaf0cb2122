// Package cli implements the lblp command-line interface.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/buildinfo"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/config"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	lblpio "github.com/v-nys/lblp-build-zip-plugin/pkg/io"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/pipeline"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "lblp"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "lblp builds learning-path archives from rooted superclusters",
		Long:         `lblp compiles the unlocking conditions of a rooted supercluster and packages them, the graph and every mapped artifact into a single zip archive.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (default $"+config.EnvConfigPath+")")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.conditionsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig loads the configuration and applies its log level unless
// debug logging was already requested.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config")
	}
	if c.Logger.GetLevel() != LogDebug {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	return cfg, nil
}

// newRunner opens the configured host and returns a runner bound to it.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	h, err := cfg.OpenHost(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s host", cfg.Host.Backend)
	}
	return cfg.Runner(h, c.Logger), nil
}

// =============================================================================
// Input Loading
// =============================================================================

// loadSupercluster reads either a payload or a bare graph document from
// path. A document with a top-level rooted_supercluster key is a payload.
func loadSupercluster(path string) (*supercluster.RootedSupercluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "read %s", path)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	if _, ok := keys["rooted_supercluster"]; ok {
		format := pipeline.FormatYAML
		if lblpio.IsJSON(path) {
			format = pipeline.FormatJSON
		}
		p, err := pipeline.ReadPayload(bytes.NewReader(data), format)
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p.RootedSupercluster, nil
	}

	var rs *supercluster.RootedSupercluster
	if lblpio.IsJSON(path) {
		rs, err = lblpio.ReadGraphJSON(bytes.NewReader(data))
	} else {
		rs, err = lblpio.ReadGraphYAML(bytes.NewReader(data))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph %s", path)
	}
	return rs, nil
}

// =============================================================================
// Output
// =============================================================================

// writeOutput writes data to path, or to c.Out when path is empty or "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
	}
	return nil
}

// describe formats the size of a supercluster for log lines.
func describe(rs *supercluster.RootedSupercluster) string {
	return fmt.Sprintf("%d nodes, %d edges, %d roots", rs.Graph.NodeCount(), rs.Graph.EdgeCount(), rs.Roots.Len())
}
