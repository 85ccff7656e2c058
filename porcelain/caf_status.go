package porcelain

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/types"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := plumbing.ComputeStatus()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status.Branch != "" {
				fmt.Fprintf(out, "On branch %s\n", status.Branch)
			} else {
				fmt.Fprintln(out, "HEAD detached")
			}

			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)

			if len(status.Staged) > 0 {
				fmt.Fprintln(out, "\nChanges to be committed:")
				for _, e := range status.Staged {
					green.Fprintf(out, "\t%-12s%s\n", e.Kind.String()+":", e.Path)
				}
			}
			if len(status.Unstaged) > 0 {
				fmt.Fprintln(out, "\nChanges not staged for commit:")
				for _, e := range status.Unstaged {
					red.Fprintf(out, "\t%-12s%s\n", e.Kind.String()+":", e.Path)
				}
			}
			if len(status.Untracked) > 0 {
				fmt.Fprintln(out, "\nUntracked files:")
				for _, p := range status.Untracked {
					red.Fprintf(out, "\t%s\n", p)
				}
			}
			if isClean(status) {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
			}
			return nil
		},
	}
}

func isClean(s *types.Status) bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}
