package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/wildpay/internal/config"
	"github.com/mmynk/wildpay/internal/storage/sqlite"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		Long:  `Apply every pending migration to the SQLite database, or roll back the latest one with --down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			down, _ := cmd.Flags().GetBool("down")
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = config.Load().DBPath
			}

			dir := sqlite.Up
			if down {
				dir = sqlite.Down
			}
			if err := sqlite.RunMigrations(dbPath, dir); err != nil {
				return err
			}

			version, dirty, err := sqlite.SchemaVersion(dbPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (dirty: %t)\n", dbPath, version, dirty)
			return nil
		},
	}

	cmd.Flags().BoolP("down", "d", false, "Roll back the latest migration")
	cmd.Flags().String("db", "", "Database path (overrides DB_PATH)")
	return cmd
}
