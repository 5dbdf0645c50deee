package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guttosm/valuepulse/config"
	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/metrics"
	"github.com/guttosm/valuepulse/internal/tickers"
)

// errEvaluationFailed marks a run where at least one ticker produced no score.
var errEvaluationFailed = errors.New("one or more tickers could not be evaluated")

func newEvaluateCmd() *cobra.Command {
	var (
		raw    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute value metrics and a verdict for each ticker",
		Long: `Validates the tickers, fetches fundamentals through the section cache and
prints the metric table with pass/fail against the value thresholds.
Without --tickers the watchlist is used. Exits 1 when no ticker is valid or
any ticker could not be evaluated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cleanup, err := buildCore(config.AppConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			symbols := tickers.ParseSymbols(raw)
			if len(symbols) == 0 {
				symbols = tickers.ParseSymbols(core.Service.Watchlist(cmd.Context()).Default)
			}

			run, err := core.Service.Evaluate(cmd.Context(), symbols)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(run); err != nil {
					return err
				}
			} else {
				for _, ev := range run.Evaluations {
					renderEvaluation(out, ev)
				}
			}

			if n := run.Failures(); n > 0 {
				return fmt.Errorf("%w: %d of %d", errEvaluationFailed, n, len(run.Evaluations))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&raw, "tickers", "t", "", "Comma separated tickers (default: watchlist)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full run as JSON")
	return cmd
}

// renderEvaluation prints one evaluation as a header plus metric table.
func renderEvaluation(w io.Writer, ev models.Evaluation) {
	fmt.Fprintf(w, "%s (%s)\n", ev.Ticker, ev.Profile.CompanyName)
	if ev.Profile.Sector != "" {
		fmt.Fprintf(w, "  %s / %s\n", ev.Profile.Sector, ev.Profile.Industry)
	}
	if ev.Profile.MarketCap != nil {
		fmt.Fprintf(w, "  market cap %v\n", metrics.FormatBillions(*ev.Profile.MarketCap))
	}

	if ev.Status != models.StatusOK || ev.Score == nil {
		fmt.Fprintf(w, "  %s: %s\n\n", ev.Status, ev.Message)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  METRIC\tVALUE\tTHRESHOLD\tRESULT")
	for _, row := range ev.Score.Rows {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", row.Label, row.Display, row.Threshold, row.Status)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "  verdict %s (%d pass, %d fail)\n", ev.Score.Verdict, ev.Score.Pass, ev.Score.Fail)
	if missing := ev.Report.MissingFields; len(missing) > 0 {
		fmt.Fprintf(w, "  warning: missing fields %s\n", strings.Join(missing, ", "))
	}
	if missing := ev.Report.MissingMetrics; len(missing) > 0 {
		fmt.Fprintf(w, "  warning: missing metrics %s\n", strings.Join(missing, ", "))
	}
	fmt.Fprintln(w)
}
