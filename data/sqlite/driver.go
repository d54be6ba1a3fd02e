// Package sqlite registers the "sqlite3" database driver, backed by
// mattn/go-sqlite3 (CGO).
//
//	import _ "github.com/ncobase/ncrud/data/sqlite"
//
// Useful sources:
//
//	"file:app.db?cache=shared&mode=rwc"
//	"file::memory:?cache=shared"
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/data"
)

type driver struct{}

func (driver) Name() string { return "sqlite3" }

// Open uses a single writer connection unless configured otherwise.
func (d driver) Open(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	return data.OpenSQL(ctx, d.Name(), "sqlite3", cfg, config.Database{MaxIdleConns: 2, MaxOpenConns: 1})
}

func (driver) Placeholder(n int) string { return "?" + strconv.Itoa(n) }

func (driver) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// tickOrder truncates the driver's time text, "2006-01-02 15:04:05.999999999-07:00"
// with trailing zeros trimmed, to seven fraction digits and drops the zone.
// Trailing zeros are trimmed again so equal ticks compare equal.
const tickOrder = `(CASE WHEN length(substr(%[1]s, 1, 27)) > 19 ` +
	`THEN rtrim(rtrim(substr(%[1]s, 1, 27), '0'), '.') ELSE substr(%[1]s, 1, 27) END)`

// TickOrder sorts stored times at cursor resolution. Values are expected
// in UTC, as the keyset lister binds them.
func (driver) TickOrder(column string) string {
	base := fmt.Sprintf(`(CASE WHEN substr(%[1]s, -6, 1) IN ('+', '-') THEN substr(%[1]s, 1, length(%[1]s) - 6) ELSE %[1]s END)`, column)
	return fmt.Sprintf(tickOrder, base)
}

func init() {
	data.RegisterDatabaseDriver(driver{})
}
