/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// schemaCmd represents the schema command.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the spreadsheet layout",
}

var schemaVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every sheet declares the columns the server needs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		repos, err := openRepositories(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, table := range []string{
			cfg.Sheets.EmployeesTable,
			cfg.Sheets.WorkHoursTable,
			cfg.Sheets.PayrollReportsTable,
			cfg.Sheets.OnboardingTable,
		} {
			fmt.Fprintf(out, "%-16s ok\n", table)
		}

		onboarding := services.NewOnboardingService(repos.Onboarding, repos.Employees, services.Options{})
		if missing := onboarding.UnmappedColumns(); len(missing) > 0 {
			fmt.Fprintf(out, "%s lacks form columns (values are dropped): %s\n",
				cfg.Sheets.OnboardingTable, strings.Join(missing, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaVerifyCmd)
}
