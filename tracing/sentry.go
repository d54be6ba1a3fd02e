package tracing

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/ctxutil"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry installs the global sentry client. Without a DSN reporting stays
// disabled and ReportError is a no-op. The returned function flushes pending
// events.
func InitSentry(cfg *config.Sentry, service, release string) (func(), error) {
	if cfg == nil || cfg.DSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		AttachStacktrace: true,
		SampleRate:       cfg.SampleRate,
		ServerName:       service,
		Release:          release,
		Environment:      cfg.Environment,
	})
	if err != nil {
		return nil, err
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// ReportError sends err to sentry with the request trace id and tags. The hub
// on ctx is used when present, the global hub otherwise.
func ReportError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if id := ctxutil.GetTraceID(ctx); id != "" {
			scope.SetTag(ctxutil.TraceIDKey, id)
		}
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}
