// Package all registers every bundled database driver.
package all

import (
	_ "github.com/ncobase/ncrud/data/mysql"    // mysql
	_ "github.com/ncobase/ncrud/data/postgres" // postgres
	_ "github.com/ncobase/ncrud/data/sqlite"   // sqlite3
)
