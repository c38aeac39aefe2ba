package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/covergen/internal/fetch"
	"github.com/wesleyorama2/covergen/internal/http"
)

func newFetchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [TARGET]",
		Short: "Download the emitter, overrides, template and tests of a target",
		Long: `Fetch downloads every script a target refers to into a bundle directory
and writes a manifest.yaml describing what was fetched, so the emitter can
be run without network access.`,
		Example: `  covergen fetch
  covergen fetch eyes_selenium_java_eg --out ./bundle --timeout 10s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			retries, _ := cmd.Flags().GetInt("retries")

			_, r, err := opts.loadTarget(args)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = filepath.Join(".coverage", r.Name)
			}

			f, err := opts.formatter()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fetcher := fetch.NewFetcher(
				fetch.WithClient(http.NewClient(http.WithTimeout(timeout))),
				fetch.WithLogger(opts.logger),
				fetch.WithConcurrency(concurrency),
				fetch.WithRetries(retries, 500*time.Millisecond),
			)

			bundle, err := fetcher.Fetch(ctx, r)
			if err != nil {
				return err
			}

			manifest, err := bundle.WriteTo(outDir)
			if err != nil {
				return err
			}
			opts.logger.Debug("bundle written",
				zap.String("target", r.Name),
				zap.String("dir", outDir))

			out, err := f.FormatManifest(manifest, outDir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Bundle directory (default .coverage/<target>)")
	cmd.Flags().Duration("timeout", 30*time.Second, "Timeout per download")
	cmd.Flags().Int("concurrency", 4, "Maximum parallel downloads")
	cmd.Flags().Int("retries", 1, "Retries for server errors and rate limiting")

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
