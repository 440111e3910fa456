// cmd/espscout/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "espscout",
	Short:         "Interactive console controller for the espscout scan device",
	Long:          "espscout drives an embedded Wi-Fi scan device over a serial byte stream:\nbinary status reports come back asynchronously and gate the interactive prompt.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(configPath)
	},
}

var configPath string

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "controller config YAML (built-in defaults when omitted)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
