package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/uber/dartedit/src/dartedit/controller/resolver"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
)

func newPositionCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "position FILE OFFSET...",
		Short: "Print the line:column of each offset",
		Long: `Print the 0-based line:column of each offset in FILE, one per line.

Offsets past the end of the file map to the end of the file.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			offsets := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				offset, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid offset %q: %w", arg, err)
				}
				offsets = append(offsets, offset)
			}

			var resolvers resolver.Factory
			return root.withApp(cmd.Context(), func() error {
				doc, err := resolvers.NewRegistry(cmd.Context()).Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, offset := range offsets {
					fmt.Fprintln(cmd.OutOrStdout(), doc.PositionAt(offset))
				}
				return nil
			}, &resolvers)
		},
	}
}

func newOffsetCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "offset FILE LINE COLUMN",
		Short: "Print the offset of a 0-based line and column",
		Long: `Print the offset of LINE and COLUMN in FILE.

Columns past the end of a line map to the start of the next line, lines past the
end of the file map to the end of the file.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[1], err)
			}
			column, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid column %q: %w", args[2], err)
			}

			var resolvers resolver.Factory
			return root.withApp(cmd.Context(), func() error {
				doc, err := resolvers.NewRegistry(cmd.Context()).Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), doc.OffsetAt(textdoc.Position{Line: line, Character: column}))
				return nil
			}, &resolvers)
		},
	}
}
