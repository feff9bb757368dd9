// Package cli implements the dependents command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dependents/pkg/buildinfo"
	"github.com/matzehuels/dependents/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dependents"

	// envPrefix prefixes every environment variable the CLI reads.
	envPrefix = "DEPENDENTS_"
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

	quiet bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Quiet mode pins it to errors.
func (c *CLI) SetLogLevel(level log.Level) {
	if c.quiet {
		level = log.ErrorLevel
	}
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself builds a dependents report.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.reportCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "suppress progress and info output")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if c.quiet {
			c.Logger.SetLevel(log.ErrorLevel)
		}
		hooks := &logHooks{logger: c.Logger}
		observability.SetHTTPHooks(hooks)
		observability.SetReportHooks(hooks)
		cmd.SetContext(withLogger(contextOf(cmd), c.Logger))
		return nil
	}

	root.AddCommand(c.formatCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
