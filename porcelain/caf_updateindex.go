package porcelain

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/types"
)

func newUpdateIndexCmd() *cobra.Command {
	var cacheInfo, remove bool

	cmd := &cobra.Command{
		Use:   "update-index (--cacheinfo <mode> <object> <file> | --remove <file>...)",
		Short: "Register file contents directly in the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := plumbing.LoadIndex()
			if err != nil {
				return fmt.Errorf("load index: %w", err)
			}
			indexMap := plumbing.IndexToMap(entries)

			switch {
			case cacheInfo && !remove && len(args) == 3:
				mode, err := utils.ParseModeStr(args[0])
				if err != nil {
					return err
				}
				if mode == constants.ModeTree {
					return fmt.Errorf("cannot add a tree to the index: %s", args[2])
				}
				sha, err := utils.ParseSHA(args[1])
				if err != nil {
					return fmt.Errorf("%w: %s", plumbing.ErrInvalidObjectID, args[1])
				}
				p, err := plumbing.CleanWorkPath(args[2])
				if err != nil {
					return err
				}

				// Existing stat data is dropped; the entry now describes an object, not a file
				indexMap[p] = types.IndexEntry{SHA1: sha, Mode: mode, Filename: p}

			case remove && !cacheInfo && len(args) > 0:
				for _, arg := range args {
					p, err := plumbing.CleanWorkPath(arg)
					if err != nil {
						return err
					}
					delete(indexMap, p)
				}

			default:
				return fmt.Errorf("usage: %s", cmd.Use)
			}

			return plumbing.WriteIndex(plumbing.MapToSortedIndex(indexMap))
		},
	}

	cmd.Flags().BoolVar(&cacheInfo, "cacheinfo", false, "directly insert the specified <mode>, <object> and <file> into the index")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the named files from the index")
	return cmd
}
