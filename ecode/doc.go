// Package ecode defines business error codes for API responses and maps the
// codec errors of this module onto them.
//
// # Error Code Convention
//
//   - 0: Success (OK)
//   - -400 to -499: Request errors, including continuation token problems
//   - -500+: Server errors
//
// # Codec Errors
//
// FromError turns errors from the token, cursor, typebuf and glob packages into
// codes, so handlers can answer a bad token with a 400 instead of a 500:
//
//	if err != nil {
//	    code := ecode.FromError(err)
//	    resp.Fail(w, &resp.Exception{
//	        Status:  ecode.ToHTTPStatus(code),
//	        Code:    code,
//	        Message: ecode.Text(code),
//	    })
//	}
//
// # Custom Error Codes
//
//	const OrderExpired = -1002
//
//	ecode.Register(OrderExpired, "Order has expired", http.StatusGone)
package ecode
