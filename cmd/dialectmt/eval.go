package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ieee0824/dialectmt/corpus"
	"github.com/ieee0824/dialectmt/evaluate"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		testPath string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score translations of a test corpus with BLEU and WER",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if testPath == "" {
				testPath = a.cfg.Corpus.TestPath
			}
			if testPath == "" {
				return errors.New("no test corpus: pass --test or set corpus.test_path")
			}

			tr, err := a.train()
			if err != nil {
				return err
			}
			rows, err := corpus.LoadTSVFile(testPath)
			if err != nil {
				return fmt.Errorf("load test corpus: %w", err)
			}
			test := corpus.New(rows, a.logger)
			pairs := append(append([]corpus.Pair(nil), test.Pairs...), test.Mismatched...)

			r := evaluate.Run(tr, pairs, tr.Corpus.Standard())
			a.logger.Info("evaluation finished", "report", r)

			out := cmd.OutOrStdout()
			if verbose {
				for _, s := range r.Sentences {
					fmt.Fprintf(out, "%s\t%s\t%s\t%.4f\t%.4f\n", s.Dialect, s.Reference, s.Hypothesis, s.BLEU, s.WER)
				}
			}
			fmt.Fprintf(out, "sentences %d, BLEU %.4f, WER %.4f\n", len(r.Sentences), r.BLEU, r.WER)
			return nil
		},
	}
	cmd.Flags().StringVar(&testPath, "test", "", "test corpus TSV (default corpus.test_path)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every scored sentence")
	return cmd
}
