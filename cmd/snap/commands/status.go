package commands

import (
	"context"
	"fmt"
	"io"

	"dirsnap/pkg/snapshot"

	"github.com/spf13/cobra"
)

var strictStatus bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the root with the last snapshot",
	Long: `Reports "Edited" or "No changes" for every file currently under the root.
Files without a recorded digest count as "No changes" and deleted files are
not listed. Use --strict to also report "New" and "Deleted".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmdContext(cmd), cmd.OutOrStdout(), strictStatus)
	},
}

func runStatus(ctx context.Context, w io.Writer, strict bool) error {
	var (
		changes []snapshot.Change
		err     error
	)
	if strict {
		changes, err = SNAP.Engine.Changes(ctx)
	} else {
		changes, err = SNAP.Engine.Status(ctx)
	}
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	fmt.Fprintln(w, "State of files since last snapshot:")
	for _, c := range changes {
		fmt.Fprintf(w, "%s - %s\n", SNAP.Engine.Rel(c.Path), c.Type)
	}
	return nil
}

func init() {
	statusCmd.Flags().BoolVar(&strictStatus, "strict", false, "also report new and deleted files")
	rootCmd.AddCommand(statusCmd)
}
