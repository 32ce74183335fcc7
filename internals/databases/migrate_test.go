package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	database "simpus_backend/internals/databases"
	"simpus_backend/internals/databases/dbtest"
)

func TestMigrateCreatesEveryTable(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.Migrate(context.Background(), db, zap.NewNop()))
	// idempotent
	require.NoError(t, database.Migrate(context.Background(), db, zap.NewNop()))

	for _, table := range []string{
		"users", "user_details", "categories", "books", "statuses",
		"transactions", "penalties", "penalty_payments", "settings", "loan_events",
	} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}
