// Package data opens the connections ncrud works with: SQL pools through
// registered drivers, redis, kafka and RabbitMQ.
//
//	import _ "github.com/ncobase/ncrud/data/all"
//
//	db, driver, err := data.OpenDB(ctx, cfg.Database)
//
// The returned driver doubles as the SQL dialect for package keyset.
package data
