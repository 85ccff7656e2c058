package porcelain

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/types"
)

func newCatFileCmd() *cobra.Command {
	var pretty, size, typ, exists bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s | -e) <object>",
		Short: "Show type, size or content of a repository object",
		Long: `Shows the contents, size or type of an object. <object> may be an object id, a
commit-ish such as HEAD~1 or a path inside a tree such as HEAD:src/main.go.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := 0
			for _, f := range []bool{pretty, size, typ, exists} {
				if f {
					selected++
				}
			}
			if selected != 1 {
				return fmt.Errorf("usage: %s", cmd.Use)
			}

			entry, err := plumbing.ResolveObject(args[0])
			if exists {
				// -e only reports through the exit status
				return err
			}
			if err != nil {
				return sentenceCase(fmt.Errorf("not a valid object name %s: %w", args[0], err))
			}

			shaHex := hex.EncodeToString(entry.SHA[:])
			objType, content, err := plumbing.ReadObject(shaHex)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case size:
				fmt.Fprintln(out, len(content))
			case typ:
				fmt.Fprintln(out, objType)
			case objType == types.TreeObject:
				tree, err := plumbing.DecodeTree(content)
				if err != nil {
					return err
				}
				printTree(out, tree)
			default:
				out.Write(content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the contents of <object> based on its type")
	cmd.Flags().BoolVarP(&typ, "type", "t", false, "show the object type")
	cmd.Flags().BoolVarP(&size, "size", "s", false, "show the object size")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with zero status if <object> exists")
	return cmd
}

// printTree writes one "<mode> <type> <sha>\t<name>" line per entry, in tree order.
func printTree(w io.Writer, tree *types.Tree) {
	for name, rec := range tree.All() {
		printEntry(w, name, rec)
	}
}

func printEntry(w io.Writer, name string, rec types.TreeRecord) {
	fmt.Fprintf(w, "%s %s %x\t%s\n", utils.ModeString(rec.Mode), rec.Type, rec.SHA, name)
}
