package cmd

import (
	"shipdesk/internal/app"

	"github.com/spf13/cobra"
)

// pollCmd runs one reconciliation batch in the foreground
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Reconcile every active shipment once and print the batch result",
	Long: `Fetch carrier activity for every shipment not yet in a terminal status
(delivered, voided, returned, exception_resolved),
record unseen events, apply status transitions and forward them to the
configured workflow sinks. Honors the Redis run lock when Redis is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			result, err := a.Poller.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}
