// Package cmd holds the dartedit command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/uber/dartedit/src/dartedit/app"
	editerrors "github.com/uber/dartedit/src/dartedit/internal/errors"
	"github.com/uber/dartedit/src/dartedit/internal/core"
	"go.uber.org/fx"
	"go.uber.org/multierr"
)

type rootFlags struct {
	configDir string
	debug     bool
}

// NewRootCommand creates the dartedit command with all subcommands.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dartedit",
		Short: "Map and apply Dart analysis server edits",
		Long: `dartedit converts the offset based edits produced by the Dart analysis server
into line and column ranges, and applies them to files on disk.

Offsets and columns count UTF-16 code units. Lines and columns are 0-based.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "directory containing meta.yaml (defaults to $DARTEDIT_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newApplyCommand(flags))
	rootCmd.AddCommand(newPositionCommand(flags))
	rootCmd.AddCommand(newOffsetCommand(flags))

	return rootCmd
}

// Exit codes returned by the dartedit binary.
const (
	ExitOK = iota
	ExitError
	// ExitBadChange reports a change that has no edits or an edit group without a file.
	ExitBadChange
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case editerrors.IsBadChange(err):
		return ExitBadChange
	}
	return ExitError
}

// withApp starts the application graph, fills targets, and runs fn before stopping it again.
func (f *rootFlags) withApp(ctx context.Context, fn func() error, targets ...interface{}) (err error) {
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(core.ConfigOptions{Dir: f.configDir, Debug: f.debug}),
		app.Module,
		fx.Populate(targets...),
	)
	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, fxApp.Stop(context.Background()))
	}()

	return fn()
}
