package main

//
//  @title           valuepulse API
//  @version         1.0
//  @description     Equity fundamentals: ticker validation, cached section fetching, value metrics and verdicts.
//  @termsOfService  https://github.com/guttosm/valuepulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/valuepulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        evaluate
//  @tag.description Metric computation and scoring
//
//  @tag.name        tickers
//  @tag.description Ticker validation and raw sections
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/guttosm/valuepulse/config"
	_ "github.com/guttosm/valuepulse/docs" // swagger docs
	"github.com/guttosm/valuepulse/internal/app"
	"github.com/guttosm/valuepulse/internal/logger"
)

// buildCore is an indirection for unit testing; defaults to app.BuildCore.
var buildCore = app.BuildCore

// newRootCmd assembles the CLI. Results go to out; logs go to stderr.
//
// Subcommands:
//   - evaluate: score tickers and print the metric table.
//   - serve:    start the REST API.
//   - validate: print the symbols the provider recognises.
//   - sections: dump the raw section bundle of one ticker as JSON.
func newRootCmd(out io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "valuepulse",
		Short:        "Value-investing fundamentals for listed equities",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load configuration from environment or .env file
			config.LoadConfig()
			if verbose {
				_ = os.Setenv("LOG_LEVEL", "debug")
			}
			logger.Init()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newEvaluateCmd(),
		newServeCmd(),
		newValidateCmd(),
		newSectionsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
