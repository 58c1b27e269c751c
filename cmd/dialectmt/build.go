package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ieee0824/dialectmt/language"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		phrasePath string
		arpaPath   string
		order      int
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Train on the corpus and export the phrase table and language model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := a.train()
			if err != nil {
				return err
			}

			if phrasePath != "" {
				if err := writeFile(phrasePath, tr.Phrases.WriteTSV); err != nil {
					return fmt.Errorf("write phrase table: %w", err)
				}
			}

			if arpaPath != "" {
				b := language.NewBuilder(order)
				b.AddText(tr.Corpus.Standard())
				if err := writeFile(arpaPath, b.WriteARPA); err != nil {
					return fmt.Errorf("write ARPA: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pairs %d, phrases %d\n", len(tr.Corpus.Pairs), tr.Phrases.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&phrasePath, "phrase-table", "", "write the phrase table to this file")
	cmd.Flags().StringVar(&arpaPath, "arpa", "", "write a Witten-Bell ARPA language model to this file")
	cmd.Flags().IntVar(&order, "order", 3, "n-gram order of the ARPA model (2 or 3)")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
