// Package serve implements the serve command: a paged HTTP listing over one
// configured table, with an optional redis page cache that broker messages
// invalidate.
package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/data"
	"github.com/ncobase/ncrud/logging/logger"
	"github.com/ncobase/ncrud/messaging/envelope"
	"github.com/ncobase/ncrud/paging"
	"github.com/ncobase/ncrud/tracing"
	"github.com/ncobase/ncrud/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

// NewCommand creates the serve command
func NewCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve the configured table as a paged HTTP listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return err
				}
				cfg.Server.Host = host
				if cfg.Server.Port, err = strconv.Atoi(port); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.host and server.port")
	return cmd
}

// load reads the config file. Without an explicit path a missing file is
// fine and defaults plus NCRUD_* variables apply.
func load(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	var notFound viper.ConfigFileNotFoundError
	if err != nil && path == "" && errors.As(err, &notFound) {
		v := viper.New()
		v.SetEnvPrefix("NCRUD")
		v.AutomaticEnv()
		return config.FromViper(v), nil
	}
	return cfg, err
}

// Run serves until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	info := version.GetVersionInfo()
	logger.SetVersion(info.Version)
	cleanup, err := logger.Init(cfg.Logger)
	if err != nil {
		return err
	}
	defer cleanup()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.AppName, info.Version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warnf(ctx, "tracing shutdown: %v", err)
		}
	}()

	flushSentry, err := tracing.InitSentry(cfg.Sentry, cfg.AppName, info.Version)
	if err != nil {
		return err
	}
	defer flushSentry()

	paging.SetLimits(cfg.Paging.DefaultLimit, cfg.Paging.MaxLimit)
	config.Watch(func(c *config.Config) {
		paging.SetLimits(c.Paging.DefaultLimit, c.Paging.MaxLimit)
		logger.Infof(ctx, "config reloaded, paging limits %d/%d", c.Paging.DefaultLimit, c.Paging.MaxLimit)
	}, func(err error) {
		logger.Warnf(ctx, "config reload: %v", err)
	})

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warnf(ctx, "close: %v", err)
		}
	}()

	var wg sync.WaitGroup
	consumeCtx, stopConsumers := context.WithCancel(ctx)
	defer func() {
		stopConsumers()
		wg.Wait()
	}()
	if r := app.Invalidator(); r != nil {
		startConsumers(consumeCtx, &wg, cfg.Messaging, cfg.Serve.Table, r)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "%s %s listening on %s, table %s", cfg.AppName, info.Version, srv.Addr, cfg.Serve.Table)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// startConsumers subscribes the invalidation router to each configured broker.
func startConsumers(ctx context.Context, wg *sync.WaitGroup, cfg *config.Messaging, table string, r *envelope.Router) {
	if cfg == nil {
		return
	}

	if reader, err := data.NewKafkaReader(cfg.Kafka); err == nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer reader.Close()
			if err := envelope.ConsumeKafka(ctx, reader, r); err != nil {
				logger.Errorf(ctx, "kafka consumer: %v", err)
			}
		}()
	} else if !errors.Is(err, data.ErrNoBrokers) {
		logger.Warnf(ctx, "kafka: %v", err)
	}

	if cfg.RabbitMQ == nil || cfg.RabbitMQ.URL == "" {
		return
	}
	conn, err := data.DialAMQP(cfg.RabbitMQ)
	if err != nil {
		logger.Warnf(ctx, "rabbitmq: %v", err)
		return
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Warnf(ctx, "rabbitmq: open channel: %v", err)
		_ = conn.Close()
		return
	}
	deliveries, err := envelope.BindAMQP(ch, cfg.RabbitMQ, table+".#")
	if err != nil {
		logger.Warnf(ctx, "rabbitmq: %v", err)
		_ = conn.Close()
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer conn.Close()
		if err := envelope.ConsumeAMQP(ctx, deliveries, r); err != nil {
			logger.Errorf(ctx, "rabbitmq consumer: %v", err)
		}
	}()
}
