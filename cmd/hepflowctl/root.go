package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	api string
}

var rootCmd = &cobra.Command{
	Use:   "hepflowctl",
	Short: "Operator tooling for the hepflow holdingpen",
	Long: "hepflowctl talks to the hepflow API and database: seed the journals\n" +
		"collection, submit records, inspect holdingpen objects and resolve\n" +
		"halted ones.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.api, "api", "http://localhost:8080", "Base URL of the hepflow API")
	rootCmd.AddCommand(seedJournalsCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
