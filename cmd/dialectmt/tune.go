package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ieee0824/dialectmt"
	"github.com/ieee0824/dialectmt/corpus"
	"github.com/ieee0824/dialectmt/decoder"
	"github.com/ieee0824/dialectmt/evaluate"
)

type paramSet struct {
	LMWeight    float64
	WordPenalty float64
	StackSize   int
}

type tuneResult struct {
	params paramSet
	report evaluate.Report
}

func newTuneCmd(a *app) *cobra.Command {
	var (
		testPath      string
		lmWeights     []float64
		wordPenalties []float64
		stackSizes    []int
		workers       int
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Grid search decoder weights against a test corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if testPath == "" {
				testPath = a.cfg.Corpus.TestPath
			}
			if testPath == "" {
				return errors.New("no test corpus: pass --test or set corpus.test_path")
			}

			rows, err := corpus.LoadTSVFile(a.cfg.Corpus.Path)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			testRows, err := corpus.LoadTSVFile(testPath)
			if err != nil {
				return fmt.Errorf("load test corpus: %w", err)
			}
			test := corpus.New(testRows, a.logger)
			pairs := append(append([]corpus.Pair(nil), test.Pairs...), test.Mismatched...)

			base, err := a.options()
			if err != nil {
				return err
			}

			var grid []paramSet
			for _, lw := range lmWeights {
				for _, wp := range wordPenalties {
					for _, ss := range stackSizes {
						grid = append(grid, paramSet{LMWeight: lw, WordPenalty: wp, StackSize: ss})
					}
				}
			}
			a.logger.Info("tuning", "combinations", len(grid), "test_pairs", len(pairs), "workers", workers)

			results, err := searchGrid(rows, pairs, grid, a.decoderConfig(), base, workers)
			if err != nil {
				return err
			}
			writeResults(cmd, results)
			return nil
		},
	}
	cmd.Flags().StringVar(&testPath, "test", "", "test corpus TSV (default corpus.test_path)")
	cmd.Flags().Float64SliceVar(&lmWeights, "lm-weights", []float64{0.5, 1, 2}, "LM weights to try")
	cmd.Flags().Float64SliceVar(&wordPenalties, "word-penalties", []float64{-1, 0, 1}, "word penalties to try")
	cmd.Flags().IntSliceVar(&stackSizes, "stack-sizes", []int{10, 100}, "stack sizes to try")
	cmd.Flags().IntVar(&workers, "workers", 4, "parallel trainings")
	return cmd
}

// searchGrid trains one translator per parameter set and evaluates it on
// test. Results are ordered by BLEU descending, then LM weight ascending.
func searchGrid(rows, test []corpus.Pair, grid []paramSet, baseCfg decoder.Config, base []dialectmt.Option, workers int) ([]tuneResult, error) {
	results := make([]tuneResult, len(grid))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	pool := standardSide(rows)
	for i, ps := range grid {
		g.Go(func() error {
			cfg := baseCfg
			cfg.LMWeight = ps.LMWeight
			cfg.WordPenalty = ps.WordPenalty
			cfg.StackSize = ps.StackSize
			tr, err := dialectmt.New(rows, append(slices.Clone(base), dialectmt.WithDecoderConfig(cfg))...)
			if err != nil {
				return fmt.Errorf("train %+v: %w", ps, err)
			}
			results[i] = tuneResult{params: ps, report: evaluate.Run(tr, test, pool)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(x, y tuneResult) int {
		switch {
		case x.report.BLEU > y.report.BLEU:
			return -1
		case x.report.BLEU < y.report.BLEU:
			return 1
		case x.params.LMWeight < y.params.LMWeight:
			return -1
		case x.params.LMWeight > y.params.LMWeight:
			return 1
		}
		return 0
	})
	return results, nil
}

func standardSide(rows []corpus.Pair) []string {
	c := corpus.New(rows, nil)
	c.Reconcile()
	return c.Standard()
}

func writeResults(cmd *cobra.Command, results []tuneResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-12s %-10s %8s %8s\n", "LMWeight", "WordPenalty", "StackSize", "BLEU", "WER")
	fmt.Fprintln(out, strings.Repeat("-", 52))
	for _, r := range results {
		fmt.Fprintf(out, "%-10.2f %-12.2f %-10d %8.4f %8.4f\n",
			r.params.LMWeight, r.params.WordPenalty, r.params.StackSize, r.report.BLEU, r.report.WER)
	}
}
