package porcelain

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
)

func newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Create a tree object from the current index",
		Long:  "Creates a tree object using the current index. The name of the new tree object is printed to standard output.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := plumbing.LoadIndex()
			if err != nil {
				return fmt.Errorf("load index: %w", err)
			}

			treeSHA, err := plumbing.WriteTreeNode(plumbing.BuildTreeFromIndex(entries))
			if err != nil {
				return fmt.Errorf("write tree: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(treeSHA[:]))
			return nil
		},
	}
}
