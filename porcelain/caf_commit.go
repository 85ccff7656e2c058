package porcelain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/types"
)

func newCommitCmd(a *app) *cobra.Command {
	var message, author string

	cmd := &cobra.Command{
		Use:   "commit -m <message> [--author \"Name <email>\"]",
		Short: "Record the index as a new commit",
		Long: `Creates a new commit from the current index and advances the current branch (or a
detached HEAD) to point to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			committer, err := a.identity(now)
			if err != nil {
				return err
			}
			authorSig := committer
			if author != "" {
				if authorSig, err = parseAuthorFlag(author, now); err != nil {
					return err
				}
			}

			commitSHA, err := plumbing.CommitIndex(authorSig, committer, message)
			if err != nil {
				return err
			}

			branch := "detached HEAD"
			if headInfo, err := plumbing.ReadHEADInfo(); err == nil && !headInfo.Detached {
				branch = headInfo.Branch
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n",
				branch,
				hex.EncodeToString(commitSHA[:])[:7],
				strings.SplitN(message, "\n", 2)[0],
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "use the given message as the commit message")
	cmd.Flags().StringVar(&author, "author", "", "override the commit author, as \"Name <email>\"")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

// identity returns the committer: user.name and user.email from .caf/config, falling back to the user settings.
func (a *app) identity(now time.Time) (types.Signature, error) {
	lookup := func(key string) (string, error) {
		val, ok, err := plumbing.GetConfig(key)
		if err != nil {
			return "", err
		}
		if ok && val != "" {
			return val, nil
		}
		if val := a.settings.GetString(key); val != "" {
			return val, nil
		}
		return "", fmt.Errorf("%s is not set; run 'caf config set %s <value>'", key, key)
	}

	name, err := lookup(keyUserName)
	if err != nil {
		return types.Signature{}, err
	}
	email, err := lookup(keyUserEmail)
	if err != nil {
		return types.Signature{}, err
	}
	return plumbing.NewSignature(name, email, now), nil
}

// parseAuthorFlag parses "Name <email>".
func parseAuthorFlag(s string, now time.Time) (types.Signature, error) {
	name, rest, ok := strings.Cut(s, "<")
	email, _, closed := strings.Cut(rest, ">")
	if !ok || !closed || strings.TrimSpace(name) == "" {
		return types.Signature{}, fmt.Errorf("invalid --author %q, expected \"Name <email>\"", s)
	}
	return plumbing.NewSignature(strings.TrimSpace(name), email, now), nil
}
