package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/uber/dartedit/src/dartedit/controller/applier"
	"github.com/uber/dartedit/src/dartedit/entity"
	"github.com/uber/dartedit/src/dartedit/internal/fs"
	"go.uber.org/zap"
)

const (
	_outputDiff = "diff"
	_outputJSON = "json"
)

type applyFlags struct {
	dryRun bool
	output string
}

func newApplyCommand(root *rootFlags) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply CHANGE_FILE",
		Short: "Apply a recorded source change",
		Long: `Apply a source change recorded from the analysis server.

CHANGE_FILE holds a SourceChange, or a refactoring response carrying one, as JSON
or YAML. Use - to read from stdin. Every referenced file is resolved before anything
is written; a file that can not be read aborts the whole change.

Examples:
  dartedit apply rename.json                 # Rewrite the affected files
  dartedit apply rename.json --dry-run       # Show unified diffs instead
  dartedit apply rename.json --dry-run -o json  # Print the line/column edits`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.output != _outputDiff && flags.output != _outputJSON {
				return fmt.Errorf("unknown output format %q, expected %s or %s", flags.output, _outputDiff, _outputJSON)
			}

			var (
				changes applier.Controller
				files   fs.FS
				logger  *zap.SugaredLogger
			)
			return root.withApp(cmd.Context(), func() error {
				change, err := readChange(cmd, files, args[0])
				if err != nil {
					return err
				}
				logger.Debugf("read change %q with %d edit groups across %d files", change.Message, len(change.Edits), len(change.Files()))
				return runApply(cmd, changes, change, flags)
			}, &changes, &files, &logger)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the change instead of applying it")
	cmd.Flags().StringVarP(&flags.output, "output", "o", _outputDiff, "dry-run output format: diff or json")

	return cmd
}

func readChange(cmd *cobra.Command, files fs.FS, name string) (entity.SourceChange, error) {
	if name == "-" {
		return entity.DecodeSourceChange(cmd.InOrStdin())
	}

	exists, err := files.FileExists(name)
	if err != nil {
		return entity.SourceChange{}, fmt.Errorf("checking change file: %w", err)
	}
	if !exists {
		return entity.SourceChange{}, fmt.Errorf("change file %q does not exist or is a directory", name)
	}

	content, err := files.ReadFile(name)
	if err != nil {
		return entity.SourceChange{}, fmt.Errorf("reading change file: %w", err)
	}
	return entity.DecodeSourceChange(bytes.NewReader(content))
}

func runApply(cmd *cobra.Command, changes applier.Controller, change entity.SourceChange, flags *applyFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !flags.dryRun {
		result, err := changes.Apply(ctx, change)
		if result != nil {
			for _, path := range result.Files {
				fmt.Fprintf(out, "updated %s\n", path)
			}
		}
		return err
	}

	if flags.output == _outputJSON {
		edit, err := changes.Convert(ctx, change)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(edit)
	}

	diff, err := changes.Preview(ctx, change)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, diff)
	return err
}
