package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finzo",
	Short: "Finzo - personal finance recommendation backend",
	Long: `Finzo Unified CLI

Personalized investment recommendations for the Indian market:
stocks, mutual funds, commodities, and SIP plans scored against a
user's financial profile.

Usage:
  go run ./cmd/finzo [command]

Examples:
  go run ./cmd/finzo api
  go run ./cmd/finzo fetch
  go run ./cmd/finzo recommend --profile profile.json
  go run ./cmd/finzo scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
