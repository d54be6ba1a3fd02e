// Package endpoint adapts keyset listings and token inspection to gin
// handlers that answer with the resp envelope.
package endpoint

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/ncrud/cache"
	"github.com/ncobase/ncrud/ctxutil"
	"github.com/ncobase/ncrud/ecode"
	"github.com/ncobase/ncrud/logging/logger"
	"github.com/ncobase/ncrud/net/resp"
	"github.com/ncobase/ncrud/paging"
	"github.com/ncobase/ncrud/tracing"
	"github.com/ncobase/ncrud/validator"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/ncobase/ncrud/endpoint"

// ListFunc returns one page of a listing.
type ListFunc[R any] func(ctx context.Context, params paging.Params) (*paging.Result[R], error)

// List serves a paged listing. The cursor and limit come from the query
// string, and the next page is advertised in a Link header as well as in the
// body.
func List[R any](name string, fn ListFunc[R]) gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		var params paging.Params
		if err := c.ShouldBindQuery(&params); err != nil {
			resp.BadRequest(c.Writer, ecode.FieldIsInvalid("query"), err.Error())
			return
		}
		if errs := validator.ValidateStruct(&params, language(c)); len(errs) > 0 {
			resp.BadRequest(c.Writer, ecode.Text(ecode.ParamErr), errs)
			return
		}

		ctx, span := tracer.Start(ctxutil.FromGinContext(c), "endpoint."+name)
		defer span.End()
		span.SetAttributes(
			attribute.Int("paging.limit", params.Limit),
			attribute.Bool("paging.resume", params.Cursor != ""),
		)

		result, err := fn(ctx, params)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			code := ecode.FromError(err)
			entry := logger.EntryWithFields(ctx, logrus.Fields{"endpoint": name, "code": code})
			if ecode.ToHTTPStatus(code) >= http.StatusInternalServerError {
				entry.WithError(err).Error("list failed")
				tracing.ReportError(ctx, err, map[string]string{"endpoint": name, "code": strconv.Itoa(code)})
			} else {
				entry.WithError(err).Debug("list rejected")
			}
			resp.FailWithError(c.Writer, err)
			return
		}

		span.SetAttributes(
			attribute.Int("paging.items", len(result.Items)),
			attribute.Bool("paging.has_next", result.HasNextPage),
		)
		if link := nextLink(c.Request.URL, paging.NormalizeParams(params), result); link != "" {
			c.Header("Link", link)
		}
		resp.Success(c.Writer, result)
	}
}

// language picks the validation message language from Accept-Language.
func language(c *gin.Context) string {
	if strings.HasPrefix(strings.ToLower(c.GetHeader("Accept-Language")), "zh") {
		return "zh"
	}
	return "en"
}

// nextLink builds the RFC 8288 Link header for the next page, keeping any
// query parameters other than the paging ones.
func nextLink[R any](u *url.URL, params paging.Params, result *paging.Result[R]) string {
	next, err := paging.NextQuery(params, result)
	if err != nil || next == nil {
		return ""
	}
	q := u.Query()
	q.Del("cursor")
	q.Del("limit")
	for k, vs := range next {
		q[k] = vs
	}
	link := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return "<" + link.String() + `>; rel="next"`
}

// Cached wraps fn with a read-through cache. Pages are stored under the
// cursor and limit and tagged so a change to the listed entity can drop them
// all at once. Cache failures fall through to fn.
func Cached[R any](c *cache.Cache[paging.Result[R]], tag string, fn ListFunc[R]) ListFunc[R] {
	if c == nil {
		return fn
	}
	return func(ctx context.Context, params paging.Params) (*paging.Result[R], error) {
		params = paging.NormalizeParams(params)
		field := cache.Key(tag, "page", strconv.Itoa(params.Limit), params.Cursor)

		if hit, err := c.Get(ctx, field); err != nil {
			logger.Warnf(ctx, "page cache read %s: %v", field, err)
		} else if hit != nil {
			return hit, nil
		}

		result, err := fn(ctx, params)
		if err != nil {
			return nil, err
		}
		if err := c.SetTagged(ctx, field, result, []string{tag}); err != nil {
			logger.Warnf(ctx, "page cache write %s: %v", field, err)
		}
		return result, nil
	}
}
