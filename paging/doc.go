// Package paging provides cursor-based pagination over continuation tokens.
//
// A page is fetched with one extra row. If the extra row arrives, the page is
// trimmed and the last kept row becomes the next cursor:
//
//	res, err := paging.Paginate(params,
//	    func(cur string, limit int) ([]Order, int, error) {
//	        return store.After(ctx, cur, limit)
//	    },
//	    func(o Order) (string, error) {
//	        return paging.EncodeCursor(o.ID, &o.CreatedAt), nil
//	    },
//	)
//
// The response body is
//
//	{
//	  "items": [...],
//	  "next": "AQAAAAAAAAAB...",
//	  "has_next": true
//	}
//
// Cursors are opaque base64url strings. DecodeCursor reports false rather than
// erroring for anything it cannot read, so callers restart from the first page.
package paging
