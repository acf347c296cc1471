package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avitali/borsellino/internal/config"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/migrations"
)

// DB wraps the local SQLite connection used by the client repositories.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("failed to create wallet database file")
		return nil, fmt.Errorf("failed to create wallet database file")
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("failed to open wallet database")
		return nil, fmt.Errorf("failed to open wallet database")
	}

	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("failed to reach wallet database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("wallet database ready")

	db := &DB{
		DB:     conn,
		logger: log,
	}

	return db, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dbFile, err)
		}
		f.Close()
	}

	return nil
}
