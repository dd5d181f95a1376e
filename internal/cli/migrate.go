package cli

import (
	"fmt"

	"tokoshop/internal/config"
	"tokoshop/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")
			if seed {
				if err := database.Seed(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Seed complete")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "also load the demo catalogue and admin account")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalogue and admin account into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.Seed(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seed complete, admin login: %s\n", database.SeedAdminEmail)
			return nil
		},
	}
}

func openDatabase() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return database.Open(cfg)
}
