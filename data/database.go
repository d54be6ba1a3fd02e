package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncobase/ncrud/config"
)

// ErrNoSource is returned for database configs without a connection source.
var ErrNoSource = errors.New("data: connection source is empty")

// OpenDB opens the database named by cfg.Driver.
func OpenDB(ctx context.Context, cfg *config.Database) (*sql.DB, DatabaseDriver, error) {
	if cfg == nil {
		return nil, nil, errors.New("data: database config is nil")
	}
	d, err := GetDatabaseDriver(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := d.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, d, nil
}

// OpenSQL is the shared body of the bundled drivers: sql.Open, pool settings,
// then a ping.
func OpenSQL(ctx context.Context, name, sqlDriver string, cfg *config.Database, defaults config.Database) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSource)
	}

	db, err := sql.Open(sqlDriver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", name, err)
	}

	maxIdle, maxOpen := cfg.MaxIdleConns, cfg.MaxOpenConns
	if maxIdle <= 0 {
		maxIdle = defaults.MaxIdleConns
	}
	if maxOpen <= 0 {
		maxOpen = defaults.MaxOpenConns
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", name, err)
	}
	return db, nil
}
