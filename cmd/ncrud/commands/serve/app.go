package serve

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/ncrud/cache"
	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/ctxutil"
	"github.com/ncobase/ncrud/data"
	_ "github.com/ncobase/ncrud/data/all"
	"github.com/ncobase/ncrud/ecode"
	"github.com/ncobase/ncrud/endpoint"
	"github.com/ncobase/ncrud/keyset"
	"github.com/ncobase/ncrud/logging/logger"
	"github.com/ncobase/ncrud/messaging/envelope"
	"github.com/ncobase/ncrud/metrics"
	"github.com/ncobase/ncrud/net/resp"
	"github.com/ncobase/ncrud/paging"
	"github.com/ncobase/ncrud/tracing"
	"github.com/redis/go-redis/v9"
)

// ErrNoTable is returned when serve.table is not configured.
var ErrNoTable = errors.New("serve: table is not configured")

// App is the HTTP listing service over one table.
type App struct {
	cfg     *config.Config
	db      *sql.DB
	rc      *redis.Client
	pages   *cache.Cache[paging.Result[keyset.Row]]
	lister  *keyset.Lister[int64, keyset.Row]
	metrics *metrics.Collector
	engine  *gin.Engine
}

// New opens the database, and redis when an address is configured, and
// builds the routes.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Serve == nil || cfg.Serve.Table == "" {
		return nil, ErrNoTable
	}

	db, driver, err := data.OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, db: db, metrics: metrics.NewCollector()}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		rc, err := data.NewRedis(ctx, cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.rc = rc
		a.pages = cache.FromConfig[paging.Result[keyset.Row]](rc, cfg.Cache, cfg.Serve.Table, cache.WithCollector(a.metrics))
	}

	a.lister = &keyset.Lister[int64, keyset.Row]{
		DB:         db,
		Dialect:    driver,
		Table:      cfg.Serve.Table,
		Columns:    cfg.Serve.Columns,
		IDColumn:   cfg.Serve.IDColumn,
		TimeColumn: cfg.Serve.TimeColumn,
		Descending: cfg.Serve.Descending,
		Scan:       keyset.ScanRow,
		KeyOf:      keyset.RowKey(cfg.Serve.IDColumn, cfg.Serve.TimeColumn),
	}
	a.engine = a.routes()
	return a, nil
}

func (a *App) routes() *gin.Engine {
	if a.cfg.RunMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Recovery(), ctxutil.Trace(), tracing.Middleware(a.cfg.AppName), a.metrics.Middleware())

	table := a.cfg.Serve.Table
	list := endpoint.Cached(a.pages, table, a.lister.List)
	e.GET("/"+table, endpoint.List(table, list))
	e.GET("/tokens/:token", endpoint.Inspect())
	e.GET("/healthz", a.health)
	e.GET("/debug/metrics", func(c *gin.Context) { resp.Success(c.Writer, a.metrics.GetMetrics()) })
	return e
}

func (a *App) health(c *gin.Context) {
	ctx := ctxutil.FromGinContext(c)
	if err := a.db.PingContext(ctx); err != nil {
		logger.Errorf(ctx, "health: database: %v", err)
		resp.Fail(c.Writer, &resp.Exception{Status: http.StatusServiceUnavailable, Code: ecode.ServiceUnavailable})
		return
	}
	if a.rc != nil {
		if err := a.rc.Ping(ctx).Err(); err != nil {
			logger.Warnf(ctx, "health: redis: %v", err)
		}
	}
	resp.Success(c.Writer)
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler { return a.engine }

// DB returns the listed database.
func (a *App) DB() *sql.DB { return a.db }

// Invalidator routes "<table>.*" messages to a page cache purge. It is nil
// when no cache is configured.
func (a *App) Invalidator() *envelope.Router {
	if a.pages == nil {
		return nil
	}
	table := a.cfg.Serve.Table
	r := envelope.NewRouter()
	_ = r.HandlePattern(table+".*", func(ctx context.Context, _ []byte) error {
		n, err := a.pages.InvalidateTags(ctx, table)
		if err != nil {
			return fmt.Errorf("invalidate %s pages: %w", table, err)
		}
		logger.Debugf(ctx, "invalidated %d cached %s pages", n, table)
		return nil
	})
	return r
}

// Close releases the database and redis clients.
func (a *App) Close() error {
	var errs []error
	if a.rc != nil {
		errs = append(errs, a.rc.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}
