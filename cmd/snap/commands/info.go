package commands

import (
	"errors"
	"fmt"
	"io"

	"dirsnap/pkg/inspect"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <filename>",
	Short: "Show metadata and content statistics of a file under the root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.OutOrStdout(), args[0])
	},
}

func runInfo(w io.Writer, name string) error {
	report, err := inspect.Info(SNAP.Root, name)
	if errors.Is(err, inspect.ErrFileNotFound) {
		fmt.Fprintf(w, "File %s does not exist\n", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("info failed: %w", err)
	}

	inspect.Print(w, report)
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
