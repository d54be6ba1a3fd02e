// Package ctxutil carries request-scoped values such as the trace id across
// context.Context and gin.Context.
//
//	r := gin.New()
//	r.Use(ctxutil.Trace())
//
//	func handler(c *gin.Context) {
//	    ctx := ctxutil.FromGinContext(c)
//	    logger.Infof(ctx, "listing") // entry carries trace_id
//	}
//
// Outside HTTP, EnsureTraceID assigns one:
//
//	ctx, traceID := ctxutil.EnsureTraceID(context.Background())
package ctxutil
