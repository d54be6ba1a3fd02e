// Package mysql registers the "mysql" database driver, backed by
// go-sql-driver/mysql. Sources must set parseTime=true for timestamp columns
// to scan into time.Time.
//
//	import _ "github.com/ncobase/ncrud/data/mysql"
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/data"
)

type driver struct{}

func (driver) Name() string { return "mysql" }

func (d driver) Open(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	if cfg.Source != "" {
		dsn, err := mysql.ParseDSN(cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("mysql: invalid source: %w", err)
		}
		if !dsn.ParseTime {
			dsn.ParseTime = true
			c := *cfg
			c.Source = dsn.FormatDSN()
			cfg = &c
		}
	}
	return data.OpenSQL(ctx, d.Name(), "mysql", cfg, config.Database{})
}

func (driver) Placeholder(int) string { return "?" }

func (driver) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func init() {
	data.RegisterDatabaseDriver(driver{})
}
