package keyset

import (
	"strconv"
	"strings"
)

// Dialect renders bind parameters and identifiers. The drivers in package
// data implement it.
type Dialect interface {
	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder(n int) string
	// Quote quotes an identifier.
	Quote(ident string) string
}

// TickOrderer is implemented by dialects whose time columns can hold values
// finer than a cursor tick. TickOrder returns an expression over the quoted
// column that sorts like the column truncated to 100ns, so rows sharing a
// tick are ordered by id the way seeks expect.
type TickOrderer interface {
	TickOrder(column string) string
}

type question struct{}

func (question) Placeholder(int) string { return "?" }
func (question) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

type dollar struct{}

func (dollar) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (dollar) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

var (
	// Question uses positional ? parameters, as SQLite and MySQL do.
	Question Dialect = question{}
	// Dollar uses numbered $n parameters, as PostgreSQL does.
	Dollar Dialect = dollar{}
)
