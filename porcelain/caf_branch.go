package porcelain

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch bool

	cmd := &cobra.Command{
		Use:   "branch [-d] [<name> [<start-point>]]",
		Short: "List, create or delete branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if deleteBranch {
				if len(args) != 1 {
					return fmt.Errorf("usage: %s", cmd.Use)
				}
				if err := plumbing.DeleteBranch(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted branch %s\n", args[0])
				return nil
			}

			if len(args) == 0 {
				branches, err := plumbing.ListBranches()
				if err != nil {
					return err
				}
				current := ""
				if headInfo, err := plumbing.ReadHEADInfo(); err == nil {
					current = headInfo.Branch
				}
				for _, b := range branches {
					if b == current {
						fmt.Fprintf(out, "* %s\n", color.GreenString(b))
					} else {
						fmt.Fprintf(out, "  %s\n", b)
					}
				}
				return nil
			}

			startPoint := "HEAD"
			if len(args) == 2 {
				startPoint = args[1]
			}
			commitSHA, err := plumbing.ResolveCommitish(startPoint)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", startPoint, err)
			}
			return plumbing.CreateBranchRef(args[0], commitSHA)
		},
	}

	cmd.Flags().BoolVarP(&deleteBranch, "delete", "d", false, "delete a branch")
	return cmd
}
