package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	database "simpus_backend/internals/databases"
	"simpus_backend/internals/seeds"
)

func openDB() (*gorm.DB, error) {
	db, err := database.ConnectDB(logger)
	if err != nil {
		return nil, err
	}
	database.TunePool(db, logger)
	return db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "AutoMigrate semua tabel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)
		return database.Migrate(ctx, db, logger)
	},
}

var seedOnly []string

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Isi data awal (statuses, categories, users, books, settings)",
	Example: "  simpus seed\n  simpus seed --only statuses,users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)
		return seeds.Run(ctx, db, seedOnly, logger)
	},
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "Seeder tertentu saja, pisahkan dengan koma")
}
