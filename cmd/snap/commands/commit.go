package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const createdLayout = "2006-01-02 15:04:05"

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Rehash every file under the root and overwrite the snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommit(cmdContext(cmd), cmd.OutOrStdout())
	},
}

func runCommit(ctx context.Context, w io.Writer) error {
	res, err := SNAP.Engine.Commit(ctx)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	fmt.Fprintf(w, "[SNAPSHOT CREATED AT %s]\n", res.CreatedAt.Format(createdLayout))
	for _, p := range res.Files {
		fmt.Fprintln(w, SNAP.Engine.Rel(p))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(commitCmd)
}
