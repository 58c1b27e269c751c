package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ieee0824/dialectmt"
	"github.com/ieee0824/dialectmt/config"
	"github.com/ieee0824/dialectmt/decoder"
	"github.com/ieee0824/dialectmt/internal/logging"
	"github.com/ieee0824/dialectmt/oov"
)

type app struct {
	cfgPath string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dialectmt",
		Short: "Viennese dialect to standard German translator",
		Long: `dialectmt trains a phrase-based translation model on a parallel corpus of
dialect transcriptions and their standard German orthography.

Examples:
  dialectmt translate "i wui ham"       # translate one sentence
  dialectmt translate --report < in.txt  # translate stdin, print OOV report
  dialectmt build --arpa wien.arpa       # export the language model
  dialectmt eval --test test.tsv         # BLEU and WER on a test set
  dialectmt annotate --dry-run           # plan database orthography updates`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.Log)
			slog.SetDefault(a.logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(
		newTranslateCmd(a),
		newBuildCmd(a),
		newEvalCmd(a),
		newAnnotateCmd(a),
		newTuneCmd(a),
	)
	return root
}

// decoderConfig maps the decoder section onto the search settings.
func (a *app) decoderConfig() decoder.Config {
	dc := a.cfg.Decoder
	return decoder.Config{
		StackSize:          dc.StackSize,
		BeamWidth:          dc.BeamWidth,
		LMWeight:           dc.LMWeight,
		WordPenalty:        dc.WordPenalty,
		MaxPhraseLength:    dc.MaxPhraseLength,
		PassThroughLogProb: dc.PassThroughLogProb,
	}
}

// options translates the configuration into translator options.
func (a *app) options() ([]dialectmt.Option, error) {
	opts := []dialectmt.Option{
		dialectmt.WithLogger(a.logger),
		dialectmt.WithDecoderConfig(a.decoderConfig()),
	}
	if dc := a.cfg.Decoder; dc.ARPAPath != "" {
		opts = append(opts, dialectmt.WithARPA(dc.ARPAPath), dialectmt.WithOOVLogProb(dc.OOVLog10Prob))
	}
	if p := a.cfg.Corpus.RulesPath; p != "" {
		rules, err := oov.LoadRulesFile(p)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		opts = append(opts, dialectmt.WithRules(rules))
	}
	return opts, nil
}

// train builds a translator from the configured corpus.
func (a *app) train() (*dialectmt.Translator, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	return dialectmt.NewFromFile(a.cfg.Corpus.Path, opts...)
}
