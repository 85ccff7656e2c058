package porcelain

import (
	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add . | <path>...",
		Short: "Add file contents to the index",
		Long: `Hashes the named files into the object database and records them in the index.
Directories are added recursively; files deleted below them are dropped from the index.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plumbing.AddPaths(args)
		},
	}
}
