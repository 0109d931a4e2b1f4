/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/logging"
	"github.com/crewclock/apiserver/internal/mq"
	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

var (
	payrollFrom   string
	payrollTo     string
	payrollDryRun bool
)

// payrollCmd represents the payroll command.
var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Payroll reports",
}

var payrollGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Total closed shifts per employee for a period",
	Long: `Totals closed shifts dated --from..--to (inclusive) per employee,
records the lines in the payroll reports sheet and archives the workbook
when object storage is configured. Usage:

	crewclock payroll generate --from 2024-03-01 --to 2024-03-07
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		location, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("TIMEZONE: %w", err)
		}
		repos, err := openRepositories(ctx, cfg)
		if err != nil {
			return err
		}

		opts := services.Options{Location: location, Logger: logging.New(cfg.LogLevel)}
		var archive *storage.Storage
		if !payrollDryRun {
			archive, err = storage.Open(ctx, cfg.Storage)
			if err != nil {
				return err
			}
			broker, err := mq.Open(ctx, cfg.MQ)
			if err != nil {
				return err
			}
			if broker != nil {
				defer broker.Close()
			}
			opts.Events = services.NewEventPublisher(broker)
		}

		payroll := services.NewPayrollService(repos.Shifts, repos.Payroll, archive, opts)
		generate := payroll.Generate
		if payrollDryRun {
			generate = payroll.Summarize
		}
		report, err := generate(ctx, payrollFrom, payrollTo)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(payrollCmd)
	payrollCmd.AddCommand(payrollGenerateCmd)

	payrollGenerateCmd.Flags().StringVar(&payrollFrom, "from", "", "first shift date, YYYY-MM-DD")
	payrollGenerateCmd.Flags().StringVar(&payrollTo, "to", "", "last shift date, YYYY-MM-DD")
	payrollGenerateCmd.Flags().BoolVar(&payrollDryRun, "dry-run", false, "print the totals without recording them")
	_ = payrollGenerateCmd.MarkFlagRequired("from")
	_ = payrollGenerateCmd.MarkFlagRequired("to")
}
