package porcelain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/constants"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [<directory>]",
		Short: "Create an empty repository or reinitialize an existing one",
		Long: `Creates a .caf directory with subdirectories for objects and refs plus the HEAD
and config files. An initial branch without any commits is checked out.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{noRepo: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath := "."
			if len(args) == 1 {
				repoPath = args[0]
				if err := os.MkdirAll(repoPath, constants.DefaultDirPerm); err != nil {
					return fmt.Errorf("create directory: %w", err)
				}
			}

			absRepoPath, err := filepath.Abs(repoPath)
			if err != nil {
				return err
			}
			if err := os.Chdir(absRepoPath); err != nil {
				return err
			}

			reinit, err := plumbing.InitRepo()
			if err != nil {
				return fmt.Errorf("initialize repository: %w", err)
			}

			repoDir := filepath.Join(absRepoPath, constants.RepoDir)
			if reinit {
				fmt.Fprintf(cmd.OutOrStdout(), "Reinitialized existing caf repository in %s\n", repoDir)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty caf repository in %s\n", repoDir)
			}
			return nil
		},
	}
}
