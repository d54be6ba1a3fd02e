package data

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/ncrud/config"
)

// Following database/sql, drivers register themselves from init and are looked
// up by the name used in configuration.

// DatabaseDriver opens SQL connections for one backend and knows its SQL
// dialect.
type DatabaseDriver interface {
	// Name returns the identifier used in configuration files, such as
	// "postgres".
	Name() string

	// Open returns a pinged pool configured from cfg.
	Open(ctx context.Context, cfg *config.Database) (*sql.DB, error)

	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder(n int) string

	// Quote quotes an identifier.
	Quote(ident string) string
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]DatabaseDriver)
)

// RegisterDatabaseDriver makes a driver available by name. It panics if the
// driver is nil or registered twice.
func RegisterDatabaseDriver(d DatabaseDriver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("data: RegisterDatabaseDriver driver is nil")
	}
	name := d.Name()
	if _, dup := drivers[name]; dup {
		panic("data: RegisterDatabaseDriver called twice for driver " + name)
	}
	drivers[name] = d
}

// GetDatabaseDriver looks up a registered driver.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("data: database driver %q not registered (forgotten import?)", name)
	}
	return d, nil
}

// DatabaseDrivers returns the sorted names of the registered drivers.
func DatabaseDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
