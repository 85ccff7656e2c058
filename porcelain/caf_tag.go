package porcelain

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
)

func newTagCmd() *cobra.Command {
	var deleteTag bool

	cmd := &cobra.Command{
		Use:   "tag [<name> [<commit-ish>]] | tag -d <name>",
		Short: "Create, list or delete lightweight tags",
		Long: `Without arguments, lists all tags with the commits they point to. With a name, creates a
tag at <commit-ish> (default HEAD). With -d, deletes the named tag.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sentenceCase(runTag(cmd.OutOrStdout(), deleteTag, args))
		},
	}

	cmd.Flags().BoolVarP(&deleteTag, "delete", "d", false, "delete the named tag")
	return cmd
}

// runTag lists, creates or deletes tags.
func runTag(out io.Writer, deleteTag bool, args []string) error {
	if deleteTag {
		if len(args) != 1 {
			return plumbing.ErrTagNameRequired
		}
		if err := plumbing.DeleteTag(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Tag %q deleted\n", args[0])
		return nil
	}

	if len(args) == 0 {
		tags, err := plumbing.ListTags()
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintln(out, "No tags found")
			return nil
		}
		fmt.Fprintln(out, "Tags:")
		for _, t := range tags {
			fmt.Fprintf(out, "  %s %s\n", color.YellowString(t.Name), hex.EncodeToString(t.CommitSHA[:]))
		}
		return nil
	}

	commitIsh := ""
	if len(args) == 2 {
		commitIsh = args[1]
	}
	sha, err := plumbing.CreateTag(args[0], commitIsh)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tag %q created at %s\n", args[0], hex.EncodeToString(sha[:]))
	return nil
}
