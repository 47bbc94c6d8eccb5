// Package cli implements the stackscope command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackscope/pkg/buildinfo"
	"github.com/matzehuels/stackscope/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "stackscope"

	// runIDLength is the number of characters of the run id shown in logs.
	runIDLength = 8
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
//
// Every invocation gets a short run id that is attached to the logger
// stored in the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackscope selects and orders workspace packages",
		Long:         `Stackscope reads a JavaScript monorepo, builds the dependency graph between its workspace packages and selects packages with pnpm-style --filter selectors.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger.With("run", uuid.NewString()[:runIDLength])
			hooks := &logHooks{logger: logger}
			observability.SetFilterHooks(hooks)
			observability.SetChangesHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.listCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.sequenceCommand())
	root.AddCommand(c.completionCommand())

	return root
}
