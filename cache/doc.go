// Package cache keeps JSON encoded values in redis with tag and pattern
// invalidation.
//
// Keys are built with Key, which joins parts with ':' and digests parts longer
// than MaxPartLen:
//
//	cache.Key("orders", "page", tok) // orders:page:AQAAAAAAAAAB...
//
// Pages of a list are usually stored under the type's tag so a write can drop
// every cached page at once:
//
//	pages := cache.NewCache[paging.Result[Order]](rc, "orders")
//	_ = pages.SetTagged(ctx, cache.Key("", "page", tok), res, []string{cache.TagFor[Order]()})
//	...
//	_, _ = pages.InvalidateTags(ctx, cache.TagFor[Order]())
package cache
