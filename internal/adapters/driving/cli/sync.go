package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinjou/inconfluential/internal/adapters/driven/storage/file"
	"github.com/dinjou/inconfluential/internal/config"
	"github.com/dinjou/inconfluential/internal/core/services"
	confluencenorm "github.com/dinjou/inconfluential/internal/normalisers/confluence"
)

func newSyncCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Export the configured spaces and commit the changes",
		Long: `Walks every configured space batch by batch, converts each page to
Markdown and writes it below <destination>/<SPACE>/ when its content
changed. All changes of a run are recorded as one commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts)
		},
	}
	addSyncFlags(cmd, opts)
	return cmd
}

func addSyncFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.IntVar(&opts.batchSize, "batch-size", config.DefaultBatchSize, "pages requested per batch")
	f.IntVar(&opts.maxRetries, "max-retries", config.DefaultMaxRetries, "consecutive rate-limit retries before giving up")
	f.StringVar(&opts.gitBackend, "git-backend", config.BackendCLI,
		fmt.Sprintf("git implementation: %q or %q", config.BackendCLI, config.BackendGoGit))
}

func runSync(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := promptAPIKey(cmd, opts, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Section("Configuration")
	for _, line := range cfg.Describe() {
		log.Info("%s", line)
	}

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	repo := newRepository(cfg, opts.env, log)

	printBanner(out, cfg.Spaces, cfg.OutputDir)

	rep := newReporter(out, opts.env, log)
	exporter := services.NewSpaceExporter(
		client,
		confluencenorm.New(),
		file.NewWriter(log),
		repo,
		log,
		services.ExportConfig{
			OutputDir:  cfg.OutputDir,
			BatchSize:  cfg.BatchSize,
			MaxRetries: cfg.MaxRetries,
		},
		services.WithProgress(rep),
	)

	result, runErr := services.NewRunOrchestrator(exporter, repo, log).Run(ctx, cfg.Spaces)
	if err := rep.stop(); err != nil {
		log.Warn("progress display: %v", err)
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		log.Warn("Run %s interrupted: %v", result.RunID, runErr)
		fmt.Fprintln(cmd.ErrOrStderr(), theme.Warning.Render("Interrupted. Nothing was committed."))
		return fmt.Errorf("%w: %w", errReported, runErr)
	default:
		log.Error("Run %s aborted: %v", result.RunID, runErr)
		fmt.Fprintln(cmd.ErrOrStderr(), theme.Error.Render(fatalMessage))
		return fmt.Errorf("%w: %w", errReported, runErr)
	}

	printSummary(out, result)
	return nil
}
