package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	paramsFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "customeriq",
	Short: "CustomerIQ - customer analytics engine",
	Long: `CustomerIQ Unified CLI

Customer analytics over e-commerce order history: RFM segmentation,
cohort retention, churn risk and purchase journey sequencing.

Usage:
  go run ./cmd/customeriq [command]

Examples:
  go run ./cmd/customeriq segment --output reports
  go run ./cmd/customeriq cohort
  go run ./cmd/customeriq data-check
  go run ./cmd/customeriq api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "segmentation parameter profile (YAML, default built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
