package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ligun0805/token-inferno/internal/ledger"
)

func historyCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show burn history and rank",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			printHistory(os.Stdout, l, all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include duplicate entries")

	cmd.AddCommand(historyCleanupCmd(), historyResetCmd(), historyExportCmd())
	return cmd
}

func printHistory(w io.Writer, l *ledger.Ledger, all bool) {
	s := l.State()
	entries := l.Unique()
	if all {
		entries = s.BurnHistory
	}
	r := l.Rank()

	fmt.Fprintf(w, "Rank         : %s (%d burns)\n", r.Name, r.Count)
	if r.Next != "" {
		fmt.Fprintf(w, "Next rank    : %s (%.0f%%)\n", r.Next, r.Progress)
	}
	fmt.Fprintf(w, "Total burned : %g\n", s.TotalBurned)
	fmt.Fprintf(w, "Combo        : x%.1f\n", s.ComboMultiplier)
	if l.HasDuplicates() {
		fmt.Fprintln(w, "Duplicates   : yes, run `burncli history cleanup`")
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No burns yet.")
		return
	}
	fmt.Fprintln(w)
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-10s %-24s %-16g %s\n", formatTimestamp(e.Timestamp), e.Symbol, e.Name, e.Value, e.TxID)
	}
}

func historyCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove duplicate entries, keeping the oldest per transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := l.CleanupDuplicates(cmd.Context())
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Println("No duplicates found.")
				return nil
			}
			fmt.Printf("Removed %d duplicate entries.\n", removed)
			return nil
		},
	}
}

func historyResetCmd() *cobra.Command {
	var assume bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the burn history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !assume && !yes(readLine(stdinReader(), "Clear all burn history? [y/N]: ")) {
				fmt.Println("Cancelled.")
				return nil
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			if err := l.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Burn history cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assume, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func historyExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write unique burns as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return l.ExportCSV(os.Stdout)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := l.ExportCSV(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
