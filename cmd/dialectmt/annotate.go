package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ieee0824/dialectmt/internal/adapter/postgres"
	"github.com/ieee0824/dialectmt/tokens"
)

func newAnnotateCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Translate database transcripts and write the orthography of each token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireDatabase(); err != nil {
				return err
			}
			tr, err := a.train()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := postgres.NewTokenRepo(pool)
			p := &tokens.Pipeline{
				Source:      repo,
				Sink:        repo,
				Translator:  tr,
				Patterns:    a.cfg.Database.TranscriptPatterns,
				Concurrency: a.cfg.Database.FetchConcurrency,
				DryRun:      dryRun,
				Logger:      a.logger,
			}
			sum, err := p.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transcripts %d, sentences %d, skipped %d, updates %d, written %d\n",
				sum.Transcripts, sum.Sentences, sum.Skipped, sum.Updates, sum.Written)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan the updates without writing them")
	return cmd
}
