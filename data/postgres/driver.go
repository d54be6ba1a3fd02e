// Package postgres registers the "postgres" database driver, backed by
// jackc/pgx through its database/sql adapter.
//
//	import _ "github.com/ncobase/ncrud/data/postgres"
package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/data"
)

type driver struct{}

func (driver) Name() string { return "postgres" }

func (d driver) Open(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	return data.OpenSQL(ctx, d.Name(), "pgx", cfg, config.Database{})
}

func (driver) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (driver) Quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

func init() {
	data.RegisterDatabaseDriver(driver{})
}
