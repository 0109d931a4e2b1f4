/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/crewclock/apiserver/config"
	"github.com/crewclock/apiserver/internal/mq"
	"github.com/crewclock/apiserver/internal/services"
	"github.com/spf13/cobra"
)

var eventChannels []string

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Domain event tools",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print domain events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not set")
		}
		defer broker.Close()

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		errs := make(chan error, len(eventChannels))
		for _, channel := range eventChannels {
			go func(channel string) {
				errs <- broker.Subscribe(ctx, channel, func(_ context.Context, msg mq.Message) error {
					mu.Lock()
					defer mu.Unlock()
					_, err := fmt.Fprintf(out, "%s %s\n", channel, msg.Data)
					return err
				})
			}(channel)
		}

		for range eventChannels {
			if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
				stop()
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)

	eventsWatchCmd.Flags().StringSliceVar(&eventChannels, "channel", []string{
		services.EventShiftClockedIn,
		services.EventShiftClockedOut,
		services.EventOnboardingCompleted,
		services.EventPayrollReportCreated,
	}, "channels to subscribe to")
}
