package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradelab",
	Short: "tradelab - trading strategy backtest and analytics service",
	Long: `tradelab CLI

Backtests trading strategies over daily price bars and produces a
standardized analytics report: risk/return metrics, trade statistics,
and a buy-and-hold benchmark.

Usage:
  go run ./cmd/tradelab [command]

Examples:
  go run ./cmd/tradelab api
  go run ./cmd/tradelab backtest --ticker AAPL --strategy ma_crossover`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
