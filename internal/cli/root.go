// Package cli implements the lexi command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/lexi/internal/config"
	"github.com/dshills/lexi/internal/logger"
)

// Version information (set via ldflags during build).
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates and returns the root cobra command for lexi.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lexi",
		Short: "Lexi document editor tools",
		Long: `Lexi is a document editor built around an undoable command history
and visitors over the document's glyphs.

The lexi command spell checks files and runs Lua editing scripts against
a document, using the same settings file as the editor.`,
		Version: Version,
		// main reports errors; usage is only printed for -h
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to settings file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "minimum log level: message, log or error")

	cmd.AddCommand(newSpellcheckCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// settingsPath returns the settings file to read.
func (o *rootOptions) settingsPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

// loadConfig reads the settings, falling back to the defaults when the
// default file does not exist. An explicit --config must exist.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	return config.LoadOrDefault(config.DefaultPath())
}

// newLogger builds the logger for cmd: messages go to its output, log and
// error lines to its error stream unless the settings redirect them.
func (o *rootOptions) newLogger(cmd *cobra.Command, cfg config.Logging) (*logger.Logger, error) {
	if o.logLevel != "" {
		cfg.Level = o.logLevel
	}
	return logger.FromConfig(cfg,
		logger.WithWriter(logger.LevelMessage, cmd.OutOrStdout()),
		logger.WithWriter(logger.LevelLog, cmd.ErrOrStderr()),
		logger.WithWriter(logger.LevelError, cmd.ErrOrStderr()),
	)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "lexi %s\n", Version)
	fmt.Fprintf(w, "  commit: %s\n", Commit)
	fmt.Fprintf(w, "  built:  %s\n", Date)
}
