package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guttosm/valuepulse/config"
)

func newSectionsCmd() *cobra.Command {
	var ticker string
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Dump the raw section bundle of one ticker as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker = strings.TrimSpace(ticker)
			if ticker == "" {
				return errors.New("--ticker is required")
			}

			core, cleanup, err := buildCore(config.AppConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			bundle := core.Service.Sections(cmd.Context(), ticker)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(bundle)
		},
	}
	cmd.Flags().StringVar(&ticker, "ticker", "", "Ticker symbol")
	return cmd
}
