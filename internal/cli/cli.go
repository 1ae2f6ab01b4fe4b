// Package cli implements the erdot command-line interface.
//
// This package provides commands for rendering ER files to DOT and Graphviz
// images and for inspecting how a file parses. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate DOT, SVG, PNG, JPG or JSON output from an ER file
//   - parse: Print a summary, the parse tree, or the assembled diagram as JSON
//   - cache: Inspect or clear the rendered image cache
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Render defaults can be set in a TOML file, read from --config or from
// erdot.toml in the working directory when present. Flags given on the
// command line always win.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context so subcommands can share it.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdot/pkg/buildinfo"
	"github.com/matzehuels/erdot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "erdot"

	// defaultConfigFile is read from the working directory when --config is not given.
	defaultConfigFile = "erdot.toml"
)

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

	configPath string
	cacheDir   string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "erdot turns plain-text ER descriptions into Graphviz diagrams",
		Long:          `erdot parses a small entity-relationship language (entities, attributes, keys and cardinality-annotated relationships) and renders it as Graphviz DOT, SVG, PNG or JPG.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+defaultConfigFile+" if present)")
	root.PersistentFlags().StringVar(&c.cacheDir, "cache-dir", "", "image cache directory (default: user cache dir)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
