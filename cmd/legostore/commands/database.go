package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/openterm/legostore/config"
	"github.com/openterm/legostore/db"
	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/logger"
	"github.com/openterm/legostore/store"
)

// openDatabase opens and migrates a database using the specified path.
// If dbPath is empty, it loads from config. Uses logger.Logger for db operations.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		path, err := config.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database path")
		}
		if path == "" {
			dbPath = "legostore.db"
		} else {
			dbPath = path
		}
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", dbPath)
	}

	return database, nil
}

// openStore opens the configured database and wraps it in a Store. The
// returned Store owns the database handle; call Shutdown when done.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath := ""
	if f := cmd.Flag("db"); f != nil {
		dbPath = f.Value.String()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	defaults := store.StampDefaults{
		Status: cfg.Stamp.Status,
		Author: cfg.Stamp.Author,
		Module: cfg.Stamp.Module,
		Path:   cfg.Stamp.Path,
	}
	return store.New(database, defaults, logger.ComponentLogger("store")), nil
}
