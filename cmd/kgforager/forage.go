package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/booksage/kgforager/internal/forager"
)

type forageOptions struct {
	sources     []string
	outPath     string
	timeout     time.Duration
	concurrency int
}

func newForageCmd(a *app) *cobra.Command {
	var opts forageOptions

	cmd := &cobra.Command{
		Use:   "forage",
		Short: "Fetch every source and print its title and first paragraph",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("source") {
				opts.sources = a.cfg.Sources
			}
			if !flags.Changed("out") {
				opts.outPath = a.cfg.OutputPath
			}
			if !flags.Changed("timeout") {
				opts.timeout = a.cfg.ForagerTimeout()
			}
			if !flags.Changed("concurrency") {
				opts.concurrency = a.cfg.ForagerConcurrency
			}
			return a.runForage(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.sources, "source", nil, "source URL (repeatable; defaults to KG_FORAGER_SOURCES)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "write results to this JSON file instead of stdout")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (0 disables)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 1, "sources fetched at once")

	return cmd
}

func (a *app) runForage(ctx context.Context, opts forageOptions) error {
	f, err := forager.New(opts.sources,
		forager.WithLogger(a.logger),
		forager.WithTimeout(opts.timeout),
		forager.WithConcurrency(opts.concurrency),
		forager.WithUserAgent(a.cfg.ForagerUserAgent),
	)
	if err != nil {
		return err
	}

	results := f.FetchData(ctx)

	if opts.outPath == "" {
		return a.writeJSON(results)
	}

	if err := forager.SaveResults(opts.outPath, results); err != nil {
		return err
	}
	a.logger.Info("results saved",
		zap.String("path", opts.outPath),
		zap.Int("results", len(results)),
	)
	return nil
}
