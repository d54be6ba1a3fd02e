// Package keyset lists table rows page by page using seek predicates instead
// of OFFSET. The position after the last row of a page travels to the client
// as a cursor token.
//
//	l := &keyset.Lister[int64, Order]{
//	    DB:         db,
//	    Dialect:    driver,
//	    Table:      "orders",
//	    Columns:    []string{"id", "created_at", "total"},
//	    IDColumn:   "id",
//	    TimeColumn: "created_at",
//	    Scan:       scanOrder,
//	    KeyOf:      func(o Order) (int64, *time.Time) { return o.ID, &o.CreatedAt },
//	}
//	res, err := l.List(ctx, paging.Params{Cursor: tok, Limit: 50})
//
// Rows are ordered by (TimeColumn, IDColumn), or by IDColumn alone, so the id
// must be unique within equal timestamps.
package keyset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/ncrud/cursor"
	"github.com/ncobase/ncrud/logging/logger"
	"github.com/ncobase/ncrud/paging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrMisconfigured is returned when a Lister lacks a required field.
var ErrMisconfigured = errors.New("keyset: lister misconfigured")

const (
	tracerName = "github.com/ncobase/ncrud/keyset"

	// tick is the timestamp resolution of a cursor.
	tick = 100 * time.Nanosecond
)

// Lister pages through one table.
type Lister[K cursor.Key, R any] struct {
	DB      *sql.DB
	Dialect Dialect

	Table   string
	Columns []string
	// IDColumn is the unique tiebreaker.
	IDColumn string
	// TimeColumn, when set, is the primary sort key and cursors carry it.
	TimeColumn string
	// Where is an optional filter. Its parameters are numbered 1..len(Args).
	Where string
	Args  []any
	// Descending lists newest first.
	Descending bool

	Scan  func(*sql.Rows) (R, error)
	KeyOf func(R) (K, *time.Time)
}

func (l *Lister[K, R]) validate() error {
	switch {
	case l.DB == nil:
		return fmt.Errorf("%w: nil DB", ErrMisconfigured)
	case l.Table == "" || l.IDColumn == "":
		return fmt.Errorf("%w: table and id column are required", ErrMisconfigured)
	case l.Scan == nil || l.KeyOf == nil:
		return fmt.Errorf("%w: Scan and KeyOf are required", ErrMisconfigured)
	}
	return nil
}

func (l *Lister[K, R]) dialect() Dialect {
	if l.Dialect == nil {
		return Question
	}
	return l.Dialect
}

// BuildQuery renders the page query that starts after the given cursor, or at
// the beginning when after is nil.
func (l *Lister[K, R]) BuildQuery(after *cursor.Cursor[K], limit int) (string, []any) {
	d := l.dialect()
	args := append([]any(nil), l.Args...)
	bind := func(v any) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(l.Columns) == 0 {
		sb.WriteString("*")
	}
	for i, c := range l.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Quote(c))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(d.Quote(l.Table))

	var conds []string
	if l.Where != "" {
		conds = append(conds, "("+l.Where+")")
	}
	if after != nil {
		op := ">"
		if l.Descending {
			op = "<"
		}
		id := d.Quote(l.IDColumn)
		if l.TimeColumn != "" && after.Timestamp != nil {
			// Cursor timestamps are whole ticks, columns may hold finer
			// values. Rows in [lo, hi) share the cursor's tick and are
			// ordered by id; see TickOrderer.
			ts := d.Quote(l.TimeColumn)
			lo := after.Timestamp.UTC()
			hi := lo.Add(tick)
			if l.Descending {
				conds = append(conds, fmt.Sprintf("(%s < %s OR (%s < %s AND %s < %s))",
					ts, bind(lo), ts, bind(hi), id, bind(after.ID)))
			} else {
				conds = append(conds, fmt.Sprintf("(%s >= %s OR (%s >= %s AND %s > %s))",
					ts, bind(hi), ts, bind(lo), id, bind(after.ID)))
			}
		} else {
			conds = append(conds, fmt.Sprintf("%s %s %s", id, op, bind(after.ID)))
		}
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	dir := " ASC"
	if l.Descending {
		dir = " DESC"
	}
	sb.WriteString(" ORDER BY ")
	if l.TimeColumn != "" {
		ts := d.Quote(l.TimeColumn)
		if to, ok := d.(TickOrderer); ok {
			ts = to.TickOrder(ts)
		}
		sb.WriteString(ts + dir + ", ")
	}
	sb.WriteString(d.Quote(l.IDColumn) + dir)
	sb.WriteString(" LIMIT ")
	sb.WriteString(bind(limit))

	return sb.String(), args
}

// decode turns the request cursor into a seek position. Anything unusable,
// including a cursor whose shape does not match this lister, restarts the
// listing.
func (l *Lister[K, R]) decode(ctx context.Context, tok string) *cursor.Cursor[K] {
	if tok == "" {
		return nil
	}
	c, ok := paging.DecodeCursor[K](tok)
	if !ok || (l.TimeColumn != "") != c.HasTimestamp() {
		logger.Debugf(ctx, "keyset: ignoring unusable cursor for %s", l.Table)
		return nil
	}
	return &c
}

// List returns the page described by params.
func (l *Lister[K, R]) List(ctx context.Context, params paging.Params) (*paging.Result[R], error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "keyset.List")
	defer span.End()
	span.SetAttributes(attribute.String("db.sql.table", l.Table))

	fetch := func(tok string, limit int) ([]R, int, error) {
		after := l.decode(ctx, tok)
		span.SetAttributes(
			attribute.Int("keyset.limit", limit-1),
			attribute.Bool("keyset.resumed", after != nil),
		)
		query, args := l.BuildQuery(after, limit)
		rows, err := l.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, 0, fmt.Errorf("keyset: query %s: %w", l.Table, err)
		}
		defer rows.Close()

		items := make([]R, 0, limit)
		for rows.Next() {
			r, err := l.Scan(rows)
			if err != nil {
				return nil, 0, fmt.Errorf("keyset: scan %s: %w", l.Table, err)
			}
			items = append(items, r)
		}
		if err := rows.Err(); err != nil {
			return nil, 0, fmt.Errorf("keyset: rows %s: %w", l.Table, err)
		}
		return items, 0, nil
	}

	next := func(last R) (string, error) {
		id, ts := l.KeyOf(last)
		if l.TimeColumn == "" {
			ts = nil
		} else if ts == nil {
			return "", fmt.Errorf("%w: KeyOf returned no timestamp", ErrMisconfigured)
		}
		return paging.EncodeCursor(id, ts), nil
	}

	res, err := paging.Paginate(params, fetch, next)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("keyset.items", len(res.Items)))
	return res, nil
}
