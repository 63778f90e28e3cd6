package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/spreport/internal/tree"
)

func newTreeCmd() *cobra.Command {
	tf := &targetFlags{}

	var long bool

	cmd := &cobra.Command{
		Use:   "tree <url>",
		Short: "List the server-relative path of every folder and file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := mustCLIContext(cmd.Context())
			ctx, cancel := commandContext(cmd.Context(), cc.Logger)
			defer cancel()

			target, err := openTarget(ctx, cc, args[0], tf)
			if err != nil {
				return err
			}

			return listTree(ctx, os.Stdout, target, cc.Cfg.Report.MaxDepth, long)
		},
	}

	addTargetFlags(cmd, tf, true)
	cmd.Flags().VarP(newDepthValue(tree.UnlimitedDepth), "max-depth", "d",
		"maximal traversal depth, >= 0 or -1/unlimited")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show type, size and modification time")

	return cmd
}

// listTree walks target and writes one line per folder and file in visit
// order. The long form is buffered so its columns can be aligned.
func listTree(ctx context.Context, w io.Writer, target *Target, maxDepth int, long bool) error {
	var rows [][]string

	visitor := tree.VisitorFuncs{
		PreVisitFolderFunc: func(_ context.Context, folder *tree.Folder) error {
			if long {
				rows = append(rows, []string{"dir", "-", displayTime(folder.Modified), folder.Path})
				return nil
			}

			_, err := fmt.Fprintln(w, folder.Path)

			return err
		},
		VisitFileFunc: func(_ context.Context, file *tree.File) error {
			if long {
				rows = append(rows, []string{"file", formatSize(file.Length), displayTime(file.Modified), file.Path})
				return nil
			}

			_, err := fmt.Fprintln(w, file.Path)

			return err
		},
	}

	if err := tree.Walk(ctx, target.Provider, target.Root, maxDepth, visitor); err != nil {
		return fmt.Errorf("walking %s: %w", target.Root, err)
	}

	if long {
		printTable(w, []string{"TYPE", "SIZE", "MODIFIED", "PATH"}, rows)
	}

	return nil
}
