package keyset

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/ncrud/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowListing(t *testing.T) {
	db, d := setup(t)
	l := &Lister[int64, Row]{
		DB:         db,
		Dialect:    d,
		Table:      "orders",
		Columns:    []string{"id", "created_at", "status"},
		IDColumn:   "id",
		TimeColumn: "created_at",
		Scan:       ScanRow,
		KeyOf:      RowKey("id", "created_at"),
	}

	var ids []int64
	params := paging.Params{Limit: 4}
	for i := 0; i < 5; i++ {
		res, err := l.List(context.Background(), params)
		require.NoError(t, err)
		for _, r := range res.Items {
			id, err := Int64(r["id"])
			require.NoError(t, err)
			ids = append(ids, id)
			assert.IsType(t, "", r["status"])
		}
		if !res.HasNextPage {
			break
		}
		params.Cursor = res.NextCursor
	}
	assert.Equal(t, []int64{10, 8, 9, 6, 7, 4, 5, 2, 3, 1}, ids)
}

func TestRowKey(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id, ts := RowKey("id", "at")(Row{"id": int32(5), "at": at})
	assert.Equal(t, int64(5), id)
	require.NotNil(t, ts)
	assert.Equal(t, at, *ts)

	id, ts = RowKey("id", "")(Row{"id": "12"})
	assert.Equal(t, int64(12), id)
	assert.Nil(t, ts)

	_, err := Int64(1.5)
	assert.Error(t, err)
}
