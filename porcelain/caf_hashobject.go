package porcelain

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/types"
)

func newHashObjectCmd() *cobra.Command {
	var (
		objType string
		write   bool
		stdin   bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [-w] [-t <type>] (--stdin | <file>)",
		Short: "Compute an object id and optionally write the object",
		Long: `Computes the object id for an object of the given type with the contents of the named file
(which can be outside of the work tree), and optionally writes it into the object database.`,
		Annotations: map[string]string{noRepo: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdin == (len(args) == 1) || len(args) > 1 {
				return fmt.Errorf("usage: %s", cmd.Use)
			}
			t := types.ObjectType(objType)
			if !t.Valid() {
				return fmt.Errorf("unsupported object type: %s", objType)
			}

			var data []byte
			var err error
			if stdin {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			// A tree must at least parse before it is stored
			if t == types.TreeObject {
				if _, err := plumbing.DecodeTree(data); err != nil {
					return err
				}
			}

			sha := plumbing.HashObject(t, data)
			if write {
				if err := plumbing.RequireRepo(); err != nil {
					return err
				}
				if sha, err = plumbing.WriteObject(t, data); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sha[:]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&objType, "type", "t", string(types.BlobObject), "object type: blob, tree or commit")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "actually write the object into the object database")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read the object from standard input")
	return cmd
}
