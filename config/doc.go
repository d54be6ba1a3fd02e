// Package config loads ncrud settings with viper.
//
// Files are YAML, JSON or TOML. Keys can be overridden by NCRUD_* environment
// variables.
//
//	app_name: ncrud
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	paging:
//	  default_limit: 50
//	  max_limit: 500
//	database:
//	  driver: postgres
//	  source: postgres://app@localhost/app
//	serve:
//	  table: orders
//	  columns: [id, created_at, total]
//	  time_column: created_at
//
// Watch reloads the file on change and passes the new Config to a callback.
package config
