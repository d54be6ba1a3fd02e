package keyset

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Row is a scanned row keyed by column name, for listings whose shape is only
// known at runtime.
type Row map[string]any

// ScanRow reads the current row into a Row. Byte slices become strings so the
// row encodes naturally as JSON.
func ScanRow(rows *sql.Rows) (Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(Row, len(cols))
	for i, c := range cols {
		if b, ok := vals[i].([]byte); ok {
			row[c] = string(b)
			continue
		}
		row[c] = vals[i]
	}
	return row, nil
}

// RowKey returns a KeyOf for Row listings with an integer id. Rows whose id
// cannot be read as an integer yield 0, which restarts the next page.
func RowKey(idColumn, timeColumn string) func(Row) (int64, *time.Time) {
	return func(r Row) (int64, *time.Time) {
		id, _ := Int64(r[idColumn])
		if timeColumn == "" {
			return id, nil
		}
		if t, ok := r[timeColumn].(time.Time); ok {
			return id, &t
		}
		return id, nil
	}
}

// Int64 converts the integer forms drivers return for id columns.
func Int64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("keyset: %T is not an integer id", v)
	}
}
