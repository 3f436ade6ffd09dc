package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive prompt: commit, info or status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		in := bufio.NewScanner(cmd.InOrStdin())

		fmt.Fprintln(w, "Menu:")
		fmt.Fprintln(w, "1. Commit")
		fmt.Fprintln(w, "2. Info <filename>")
		fmt.Fprintln(w, "3. Status")
		fmt.Fprint(w, "Enter your choice (1/2/3): ")

		switch readLine(in) {
		case "1":
			return runCommit(cmdContext(cmd), w)
		case "2":
			fmt.Fprint(w, "Enter filename: ")
			name := readLine(in)
			if name == "" {
				fmt.Fprintln(w, "Invalid choice!")
				return nil
			}
			return runInfo(w, name)
		case "3":
			return runStatus(cmdContext(cmd), w, false)
		default:
			fmt.Fprintln(w, "Invalid choice!")
			return nil
		}
	},
}

// readLine 读取一行并去掉首尾空白，EOF 时返回空串
func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
