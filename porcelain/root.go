package porcelain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brickster241/caf/plumbing"
	"github.com/brickster241/caf/utils/logging"
)

// Version is reported by `caf version`.
const Version = "0.3.0"

// Settings keys, read from the user settings file and CAF_* environment variables.
const (
	keyLogLevel  = "log_level"
	keyColor     = "color"
	keyUserName  = "user.name"
	keyUserEmail = "user.email"
)

// noRepo marks commands that run without an existing repository.
const noRepo = "norepo"

type app struct {
	settings *viper.Viper
	workDir  string
}

// NewRootCommand builds the caf command tree. Each call returns an independent tree.
func NewRootCommand() *cobra.Command {
	a := &app{settings: viper.New()}

	root := &cobra.Command{
		Use:   "caf",
		Short: "caf is a content-addressed version control engine",
		Long: `caf stores files, directory trees and commits as content-addressed
objects below .caf and offers a git-like command line to work with them.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.workDir, "work-dir", "C", "", "run as if caf was started in this directory")
	root.PersistentFlags().String("log-level", "", "log level: error, warn, info, debug or trace")
	root.PersistentFlags().String("color", "", "colorize output: auto, always or never")

	root.AddCommand(
		newInitCmd(),
		newHashObjectCmd(),
		newCatFileCmd(),
		newUpdateIndexCmd(),
		newAddCmd(),
		newStatusCmd(),
		newWriteTreeCmd(),
		newReadTreeCmd(),
		newLsTreeCmd(),
		newCommitCmd(a),
		newCheckoutCmd(),
		newBranchCmd(),
		newConfigCmd(),
		newTagCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("fatal:"), err)
		return 1
	}
	return 0
}

// setup runs before every command: it loads settings, configures logging and colour, changes to the requested
// directory and checks for a repository.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.loadSettings(cmd); err != nil {
		return err
	}

	log := logging.GetLogger()
	if name := a.settings.GetString(keyLogLevel); name != "" {
		level, ok := logging.ParseLevel(name)
		if !ok {
			return fmt.Errorf("unknown log level %q", name)
		}
		log.SetLevel(level)
	}

	switch mode := a.settings.GetString(keyColor); mode {
	case "", "auto":
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}

	if a.workDir != "" {
		if err := os.Chdir(a.workDir); err != nil {
			return fmt.Errorf("cannot change to %s: %w", a.workDir, err)
		}
	}

	if _, ok := cmd.Annotations[noRepo]; ok {
		return nil
	}
	return sentenceCase(plumbing.RequireRepo())
}

// sentenceError shows a wrapped error with its first letter upper-cased.
type sentenceError struct {
	err error
}

func (e sentenceError) Error() string {
	msg := e.err.Error()
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

func (e sentenceError) Unwrap() error {
	return e.err
}

// sentenceCase upper-cases the first letter of err's message for commands whose output reads as sentences
// ("No repository found", "Tag name is required"). A nil error stays nil.
func sentenceCase(err error) error {
	if err == nil {
		return nil
	}
	return sentenceError{err: err}
}

// loadSettings reads $XDG_CONFIG_HOME/caf/config.yaml (if present), CAF_* environment variables and the global flags.
func (a *app) loadSettings(cmd *cobra.Command) error {
	v := a.settings
	v.SetDefault(keyColor, "auto")
	v.SetEnvPrefix("caf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag(keyLogLevel, cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag(keyColor, cmd.Root().PersistentFlags().Lookup("color")); err != nil {
		return err
	}

	if dir, err := os.UserConfigDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(dir, "caf"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read settings: %w", err)
			}
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noRepo: ""},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "caf v%s\n", Version)
		},
	}
}
