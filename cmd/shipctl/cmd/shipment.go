package cmd

import (
	"time"

	"shipdesk/internal/app"
	"shipdesk/internal/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shipmentCmd groups shipment registry commands
var shipmentCmd = &cobra.Command{
	Use:   "shipment",
	Short: "Manage tracked shipments",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var shipmentAddCmd = &cobra.Command{
	Use:   "add <tracking_number>",
	Short: "Register a shipment so the poller tracks it",
	Long: `Register a carrier tracking number with status "created". Registering a
number that is already tracked prints the existing shipment unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			shipment, err := a.Registry.CreateShipment(cmd.Context(), args[0], time.Now().UTC())
			if err != nil {
				return err
			}
			logger.Get().Info("Shipment registered",
				zap.String("tracking_number", shipment.TrackingNumber),
				zap.String("status", string(shipment.Status)),
			)
			return printJSON(cmd.OutOrStdout(), shipment)
		})
	},
}

var shipmentEventsCmd = &cobra.Command{
	Use:   "events <tracking_number>",
	Short: "Print a shipment and its recorded carrier events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			shipment, err := a.Shipments.GetByTrackingNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			events, err := a.Events.ListEvents(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"shipment": shipment,
				"events":   events,
			})
		})
	},
}

func init() {
	shipmentCmd.AddCommand(shipmentAddCmd)
	shipmentCmd.AddCommand(shipmentEventsCmd)
}
