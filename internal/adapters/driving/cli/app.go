package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dinjou/inconfluential/internal/adapters/driven/vcs/gitcli"
	"github.com/dinjou/inconfluential/internal/adapters/driven/vcs/gogit"
	"github.com/dinjou/inconfluential/internal/adapters/driving/progress"
	"github.com/dinjou/inconfluential/internal/config"
	"github.com/dinjou/inconfluential/internal/connectors/confluence"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// loadConfig resolves the configuration and applies the flags that were
// set on the command line.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configPath,
		Getenv:     opts.env.getenv,
	})
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("space") {
		cfg.Spaces = config.ParseSpaces(strings.Join(opts.spaces, ","))
	}
	if flags.Changed("output") {
		cfg.OutputDir = opts.output
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize = opts.batchSize
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = opts.maxRetries
	}
	if flags.Changed("git-backend") {
		cfg.GitBackend = opts.gitBackend
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// promptAPIKey asks for the API key on the terminal when only a username
// was configured.
func promptAPIKey(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	if cfg.Token != "" || cfg.APIKey != "" || cfg.Username == "" {
		return nil
	}
	fd := int(opts.env.stdin.Fd())
	if !opts.env.isTerminal(fd) {
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Confluence API key for %s: ", cfg.Username)
	key, err := opts.env.readPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}
	cfg.APIKey = string(key)
	return nil
}

func openLogger(cfg config.Config) (*logger.Logger, error) {
	level := logger.LevelInfo
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	return logger.Open(cfg.LogFile, level)
}

func newClient(cfg config.Config, log *logger.Logger) (*confluence.Client, error) {
	return confluence.NewClient(confluence.Config{
		BaseURL:           cfg.Instance,
		Username:          cfg.Username,
		APIKey:            cfg.APIKey,
		Token:             cfg.Token,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, log)
}

// newRepository picks the git backend. The git executable is preferred;
// the built-in backend is used when configured or when git is missing.
func newRepository(cfg config.Config, e env, log *logger.Logger) driven.Repository {
	if cfg.GitBackend == config.BackendCLI {
		if e.gitAvailable(gitcli.DefaultBinary) {
			return gitcli.New(cfg.OutputDir, log, gitcli.WithAuthor(cfg.AuthorName, cfg.AuthorEmail))
		}
		log.Warn("git executable not found, using the built-in git backend")
	}
	return gogit.New(cfg.OutputDir, log, gogit.WithAuthor(cfg.AuthorName, cfg.AuthorEmail))
}

// reporter is a progress reporter with a lifetime around the run.
type reporter struct {
	driven.ProgressReporter
	stop func() error
}

// newReporter draws progress bars on a terminal and plain lines
// elsewhere. Events are always mirrored to the log.
func newReporter(out io.Writer, e env, log *logger.Logger) reporter {
	logged := progress.NewLog(log)
	if f, ok := out.(*os.File); ok && e.isTerminal(int(f.Fd())) {
		ui := progress.NewInteractive(f)
		ui.Start()
		return reporter{ProgressReporter: progress.Multi{ui, logged}, stop: ui.Stop}
	}
	return reporter{
		ProgressReporter: progress.Multi{progress.NewPlain(out), logged},
		stop:             func() error { return nil },
	}
}
