// Package cmd provides the CLI commands for the sellerdesk client.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/config"
)

var cfgFile string
var sessionFilePath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sellerdesk",
	Short: "sellerdesk - seller dashboard client",
	Long: `sellerdesk is a command-line client for the seller administration backend.

It manages a persisted login session (email + OTP, automatic token refresh)
and drives the seller APIs: categories, products, orders, sales reports,
bulk invoice generation, and bulk mail.

Quick start:
  1. Create a config file sellerdesk.yaml with the backend base URL
  2. Run: sellerdesk login --email you@example.com
  3. Run: sellerdesk orders list

Configuration:
  Config is loaded from sellerdesk.yaml in the current directory,
  $HOME/.sellerdesk/, or /etc/sellerdesk/.

  Environment variables can override config values with the SELLERDESK_ prefix.
  Example: SELLERDESK_API_BASE_URL=https://api.example.com`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sellerdesk.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionFilePath, "session", "", "session file (default: ~/.sellerdesk/session.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	config.InitViper(cfgFile)
}
