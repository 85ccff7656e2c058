package porcelain

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickster241/caf/plumbing"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config (get <key> | set <key> <value> | unset <key>)",
		Short: "Get and set repository options",
		Long: `Reads and writes the repository configuration stored in .caf/config. Keys have the
form <section>.<name>, for example user.email.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value of a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				val, ok, err := plumbing.GetConfig(args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("config key not found: %s", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), val)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set the value of a key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return plumbing.SetConfig(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "unset <key>",
			Short: "Remove a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return plumbing.UnsetConfig(args[0])
			},
		},
	)
	return cmd
}
