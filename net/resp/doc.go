// Package resp writes JSON responses with a consistent shape.
//
// Success responses carry the payload as-is. Failures carry a business code
// from ecode:
//
//	{
//	  "code": -410,
//	  "message": "Invalid continuation token",
//	  "errors": {...}
//	}
//
// Codec errors can be written directly:
//
//	items, err := lister.List(ctx, params)
//	if err != nil {
//	    resp.FailWithError(w, err)
//	    return
//	}
//	resp.Success(w, items)
package resp
