// Package main provides the billed command: the expense report web
// application, its bills API, and account administration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/billed/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "billed",
	Short: "Expense reports for employees and their reviewers",
	Long: `billed serves the expense report screens (bills list, new bill form,
admin dashboard) and the bills API they call. Settings come from the
environment, an optional .env file, and flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrides := map[string]*string{
		"addr":      &cfg.Addr,
		"db":        &cfg.DBPath,
		"api-url":   &cfg.APIURL,
		"log-level": &cfg.LogLevel,
	}
	for name, dst := range overrides {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
