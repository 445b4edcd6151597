// Package testutil provides shared test helpers for store tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/openterm/legostore/db"
	"github.com/openterm/legostore/types"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// Uses real migrations to ensure test schema matches production schema.
func SetupTestDB(t *testing.T) *sql.DB {
	testDB, err := db.OpenInMemory(nil)
	require.NoError(t, err)

	err = db.Migrate(testDB, nil)
	require.NoError(t, err, "Failed to run migrations")

	t.Cleanup(func() { testDB.Close() })
	return testDB
}

// NewLego builds a minimal Lego carrying a Pncs reference and one assertion,
// ready to commit.
func NewLego(legoUUID string, pncsID int64, pncsValue string) *types.Lego {
	return &types.Lego{
		UUID: legoUUID,
		Pncs: &types.Pncs{ID: pncsID, Name: "test pncs", Value: pncsValue},
		Assertions: []*types.Assertion{{
			UUID: legoUUID + "-assertion-1",
			Discernible: &types.Expression{
				Concept: &types.Concept{SCTID: 404684003},
			},
		}},
	}
}
