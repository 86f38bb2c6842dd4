package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinjou/inconfluential/internal/adapters/driven/storage/file"
	"github.com/dinjou/inconfluential/internal/core/services"
	confluencenorm "github.com/dinjou/inconfluential/internal/normalisers/confluence"
)

func newPageCmd(opts *options) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "page <space-key> <title>",
		Short: "Export a single page",
		Long: `Looks up one page by its title and converts it to Markdown. The file is
written where a full sync would place it unless --stdout is given. Nothing
is committed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, opts, args[0], args[1], stdout)
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the Markdown instead of writing it")
	return cmd
}

func runPage(cmd *cobra.Command, opts *options, spaceKey, title string, stdout bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := promptAPIKey(cmd, opts, &cfg); err != nil {
		return err
	}
	if !stdout && cfg.OutputDir == "" {
		return fmt.Errorf("no export destination set; use --output or --stdout")
	}

	log, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	doc, err := services.NewPageService(client, client, confluencenorm.New(), cfg.OutputDir, log).
		FetchPage(ctx, spaceKey, title)
	if err != nil {
		return err
	}

	if stdout {
		fmt.Fprint(cmd.OutOrStdout(), doc.Content)
		return nil
	}
	if file.NewWriter(log).WriteIfChanged(doc.Path, []byte(doc.Content)) {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", doc.Path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Not written: %s (unchanged, or see the log)\n", doc.Path)
	}
	return nil
}
