// Package cmd provides the CLI commands for the opsaix agent.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opsaix",
	Short: "AI-powered incident detection and analysis",
	Long: `OpsAiX is an incident response assistant that:
  - Ingests operational text from files, stdin, or the command line
  - Asks an LLM whether the data describes an incident
  - Repairs and validates the model's structured output
  - Builds incident records from positive detections
  - Produces a deep five-section analysis of known incidents

Every run prints a result envelope as JSON: either a success envelope
with the detection/analysis result, or an error envelope describing
what failed.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./opsaix.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(analyzeCmd)
}
