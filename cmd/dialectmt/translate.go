package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ieee0824/dialectmt"
)

func newTranslateCmd(a *app) *cobra.Command {
	var report bool
	cmd := &cobra.Command{
		Use:   "translate [sentence...]",
		Short: "Translate dialect sentences (one per argument, or stdin lines)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.train()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, s := range args {
					fmt.Fprintln(out, tr.Translate(s))
				}
			} else if err := translateLines(tr, cmd.InOrStdin(), out); err != nil {
				return err
			}

			if report {
				writeReport(tr, out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "print out-of-vocabulary statistics after translating")
	return cmd
}

func translateLines(tr *dialectmt.Translator, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(w, tr.Translate(scanner.Text()))
	}
	return scanner.Err()
}

func writeReport(tr *dialectmt.Translator, w io.Writer) {
	st := tr.OOVStats()
	fmt.Fprintf(w, "\nOOV words: %d, recovered: %d (%.1f%%), unresolved: %d\n",
		st.Words, st.Recovered, st.Rate, st.Unresolved)
	for _, r := range tr.Repairs() {
		fmt.Fprintf(w, "  %s -> %s\n", r.Original, r.Repaired)
	}
	for _, u := range tr.Ledger.Unresolved() {
		fmt.Fprintf(w, "  %s (unresolved, %d)\n", u.Word, u.Count)
	}
}
