package cmd

import (
	"fmt"

	"shipdesk/internal/core/config"
	"shipdesk/internal/core/database"
	"shipdesk/internal/core/logger"

	"github.com/spf13/cobra"
)

// migrateCmd applies the embedded schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != config.StoreDriverPostgres {
			return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.StoreDriverPostgres)
		}
		if err := database.Migrate(cmd.Context(), cfg.Store.DatabaseURL); err != nil {
			return err
		}
		logger.Get().Info("Migrations applied")
		return nil
	},
}
