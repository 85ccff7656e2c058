package porcelain

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
)

func newCheckoutCmd() *cobra.Command {
	var newBranch string

	cmd := &cobra.Command{
		Use:   "checkout [-b <new-branch>] [<commit-ish>] [-- <path>...]",
		Short: "Switch branches or restore work tree files",
		Long: `Switches to a branch (or detaches HEAD at a commit) and updates the index and work tree,
or, when paths are given, restores just those paths from <commit-ish> (default HEAD).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Everything after "--" is a path
			var paths []string
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				args, paths = args[:dash], args[dash:]
			}

			switch {
			case newBranch != "":
				if len(args) > 1 || len(paths) > 0 {
					return fmt.Errorf("usage: %s", cmd.Use)
				}
				startPoint := "HEAD"
				if len(args) == 1 {
					startPoint = args[0]
				}
				commitSHA, err := plumbing.ResolveCommitish(startPoint)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", startPoint, err)
				}
				if err := plumbing.ValidateRefName(newBranch); err != nil {
					return err
				}
				if err := ensureClean(); err != nil {
					return err
				}
				if err := plumbing.CreateBranchRef(newBranch, commitSHA); err != nil {
					return err
				}
				if err := switchTo(commitSHA); err != nil {
					if delErr := plumbing.DeleteBranch(newBranch); delErr != nil {
						return errors.Join(err, delErr)
					}
					return err
				}
				if err := plumbing.SetHEADBranch(newBranch); err != nil {
					return err
				}
				fmt.Fprintf(out, "Switched to a new branch '%s'\n", newBranch)

			case len(paths) > 0 || len(args) > 1:
				rev := "HEAD"
				if len(paths) == 0 {
					rev, paths = args[0], args[1:]
				} else if len(args) == 1 {
					rev = args[0]
				} else if len(args) > 1 {
					return fmt.Errorf("usage: %s", cmd.Use)
				}
				treeSHA, err := plumbing.ResolveTreeish(rev)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", rev, err)
				}
				return plumbing.CheckoutPaths(treeSHA, paths)

			case len(args) == 1:
				target := args[0]
				if sha, ok := plumbing.ReadBranchRef(target); ok {
					if err := switchTo(sha); err != nil {
						return err
					}
					if err := plumbing.SetHEADBranch(target); err != nil {
						return err
					}
					fmt.Fprintf(out, "Switched to branch '%s'\n", target)
					return nil
				}

				commitSHA, err := plumbing.ResolveCommitish(target)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", target, err)
				}
				if err := switchTo(commitSHA); err != nil {
					return err
				}
				if err := plumbing.SetHEADDetached(commitSHA); err != nil {
					return err
				}
				fmt.Fprintf(out, "HEAD is now at %x\n", commitSHA[:4])

			default:
				return fmt.Errorf("usage: %s", cmd.Use)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&newBranch, "branch", "b", "", "create a new branch and check it out")
	return cmd
}

// ensureClean fails when the index or the work tree has uncommitted changes to tracked files.
func ensureClean() error {
	status, err := plumbing.ComputeStatus()
	if err != nil {
		return err
	}
	if len(status.Staged) > 0 || len(status.Unstaged) > 0 {
		return errors.New("your local changes would be overwritten by checkout; commit them first")
	}
	return nil
}

// switchTo refuses to run over uncommitted changes, then updates the index and work tree to the commit's tree.
// Untracked files in the way of the target tree also stop the switch.
func switchTo(commitSHA [20]byte) error {
	if err := ensureClean(); err != nil {
		return err
	}

	commit, err := plumbing.ReadCommit(commitSHA)
	if err != nil {
		return err
	}
	return plumbing.CheckoutTree(commit.TreeSHA)
}
