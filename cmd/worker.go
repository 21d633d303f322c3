/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"

	"github.com/apolion-games/mentorhub/config"
	"github.com/apolion-games/mentorhub/internal/mq"
	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes registration events from the message bus",
	Long: `Consumes registration events from the message bus and writes them
to the audit log. Usage:

	mentorhub worker
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		bus, err := mq.NewBusFromConfig(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if bus == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer func() {
			_ = bus.Close()
		}()

		auditor := services.NewRegistrationAuditor(nil)
		return bus.Subscribe(cmd.Context(), services.RegistrationEventChannel,
			func(ctx context.Context, msg mq.Message) error {
				return auditor.Record(ctx, msg.Data, msg.Attributes)
			})
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
