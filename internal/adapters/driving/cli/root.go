// Package cli is the command-line entry point of inconfluential.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dinjou/inconfluential/internal/adapters/driven/vcs/gitcli"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// errReported marks an error whose message was already shown to the user.
var errReported = errors.New("already reported")

// env is the process environment seen by the commands. Tests replace it.
type env struct {
	getenv       func(string) string
	stdin        *os.File
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
	gitAvailable func(binary string) bool
}

func defaultEnv() env {
	return env{
		getenv:       os.Getenv,
		stdin:        os.Stdin,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
		gitAvailable: gitcli.Available,
	}
}

// options holds the flag values shared by the commands.
type options struct {
	env env

	configPath string
	verbose    bool
	spaces     []string
	output     string

	batchSize  int
	maxRetries int
	gitBackend string
}

// NewRootCmd builds the command tree. Running the root command without a
// subcommand performs a sync.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{env: defaultEnv()})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "inconfluential",
		Short: "Mirror Confluence spaces into a git repository of Markdown files",
		Long: `inconfluential exports every page of the configured Confluence spaces
as Markdown, writes only the files whose content changed and records each
run as a single git commit.

Configuration is read from inconfluential.toml, a .env file and the
environment (CONFLUENCE_INSTANCE, CONFLUENCE_USERNAME, CONFLUENCE_API_KEY,
CONFLUENCE_TOKEN, CONFLUENCE_SPACE, EXPORT_DESTINATION). Flags override all
of them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./inconfluential.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug detail")
	pf.StringSliceVarP(&opts.spaces, "space", "s", nil, "space key to export; repeat or comma-separate for several")
	pf.StringVarP(&opts.output, "output", "o", "", "export destination directory")
	addSyncFlags(root, opts)

	root.AddCommand(newSyncCmd(opts))
	root.AddCommand(newPageCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line against ctx and prints any error that
// was not already reported.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(root.ErrOrStderr(), theme.Error.Render("Error: ")+err.Error())
	}
	return err
}
