/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crewclock",
	Short: "Time tracking and onboarding backend for site crews",
	Long: `crewclock records clock-ins, starter forms and payroll reports
in a Google Sheets spreadsheet and serves them over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (*store.Repositories, error) {
	backend, err := sheets.NewGoogleClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, backend, cfg.Sheets)
}
