package porcelain

import (
	"fmt"
	"io"
	"path"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/types"
)

type lsTreeOptions struct {
	dirsOnly  bool // -d
	recursive bool // -r
	showTrees bool // -t
	nameOnly  bool
}

// include reports whether an entry is printed. Trees are printed without -r, with -t, or with -d.
func (o lsTreeOptions) include(rec types.TreeRecord) bool {
	isTree := rec.Type == types.TreeObject
	if o.dirsOnly {
		return isTree
	}
	return !isTree || !o.recursive || o.showTrees
}

func (o lsTreeOptions) print(w io.Writer, name string, rec types.TreeRecord) {
	if o.nameOnly {
		fmt.Fprintln(w, name)
		return
	}
	printEntry(w, name, rec)
}

// list prints the entries of one tree, descending into subtrees when recursive.
func (o lsTreeOptions) list(w io.Writer, treeSHA [20]byte, prefix string) error {
	tree, err := plumbing.ReadTree(treeSHA)
	if err != nil {
		return err
	}
	for name, rec := range tree.All() {
		if err := o.listEntry(w, path.Join(prefix, name), rec); err != nil {
			return err
		}
	}
	return nil
}

func (o lsTreeOptions) listEntry(w io.Writer, name string, rec types.TreeRecord) error {
	if o.include(rec) {
		o.print(w, name, rec)
	}
	if o.recursive && rec.Type == types.TreeObject {
		return o.list(w, rec.SHA, name)
	}
	return nil
}

func newLsTreeCmd() *cobra.Command {
	var opts lsTreeOptions

	cmd := &cobra.Command{
		Use:   "ls-tree [-d] [-r] [-t] [--name-only] <tree-ish> [<path>...]",
		Short: "List the contents of a tree object",
		Long: `Lists the contents of a tree-ish object (commit or tree), like what "/bin/ls -a" does in the
current working directory. Entries are listed in name order. With paths, only the named entries are shown.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeSHA, err := plumbing.ResolveTreeish(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return opts.list(out, treeSHA, "")
			}

			for _, p := range args[1:] {
				entry, err := plumbing.ResolvePath(treeSHA, p)
				if err != nil {
					return err
				}
				if entry.Name == "" {
					// the root itself
					if err := opts.list(out, treeSHA, ""); err != nil {
						return err
					}
					continue
				}
				if err := opts.listEntry(out, entry.Name, entry.TreeRecord); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.dirsOnly, "dirs", "d", false, "show only the named tree entries themselves, not their children")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "recurse into sub-trees")
	cmd.Flags().BoolVarP(&opts.showTrees, "trees", "t", false, "show tree entries even when going to recurse them")
	cmd.Flags().BoolVar(&opts.nameOnly, "name-only", false, "list only filenames")
	return cmd
}
