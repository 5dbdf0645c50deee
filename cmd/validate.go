package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guttosm/valuepulse/config"
	"github.com/guttosm/valuepulse/internal/tickers"
)

func newValidateCmd() *cobra.Command {
	var (
		raw    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Print the canonical symbols the provider recognises",
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := tickers.ParseSymbols(raw)
			if len(symbols) == 0 {
				return errors.New("--tickers is required")
			}

			core, cleanup, err := buildCore(config.AppConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			res := core.Service.Validate(cmd.Context(), symbols)
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(res)
			}
			fmt.Fprintln(out, strings.Join(res.Symbols, ","))
			if !res.Confirmed {
				fmt.Fprintf(cmd.ErrOrStderr(), "unconfirmed: %s\n", res.Reason)
			}
			if len(res.Symbols) == 0 {
				return errors.New("no valid tickers")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&raw, "tickers", "t", "", "Comma separated tickers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
