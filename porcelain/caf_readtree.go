package porcelain

import (
	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/types"
)

func newReadTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-tree <tree-ish>",
		Short: "Read tree information into the index",
		Long:  "Replaces the index with the blobs of <tree-ish>, without touching any work tree files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeSHA, err := plumbing.ResolveTreeish(args[0])
			if err != nil {
				return err
			}

			var entries []types.IndexEntry
			err = plumbing.WalkTree(treeSHA, func(p string, rec types.TreeRecord) error {
				if rec.Type == types.BlobObject {
					entries = append(entries, types.IndexEntry{Filename: p, SHA1: rec.SHA, Mode: rec.Mode})
				}
				return nil
			})
			if err != nil {
				return err
			}

			return plumbing.WriteIndex(entries)
		},
	}
}
