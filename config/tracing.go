package config

import (
	"time"

	"github.com/spf13/viper"
)

// Tracing configures the OpenTelemetry exporter. An empty Endpoint keeps
// spans in process.
type Tracing struct {
	Endpoint      string
	Insecure      bool
	SamplingRate  float64
	BatchTimeout  time.Duration
	ExportTimeout time.Duration
}

func getTracingConfig(v *viper.Viper) *Tracing {
	return &Tracing{
		Endpoint:      v.GetString("tracing.endpoint"),
		Insecure:      v.GetBool("tracing.insecure"),
		SamplingRate:  v.GetFloat64("tracing.sampling_rate"),
		BatchTimeout:  v.GetDuration("tracing.batch_timeout"),
		ExportTimeout: v.GetDuration("tracing.export_timeout"),
	}
}

// Sentry configures error reporting. An empty DSN disables it.
type Sentry struct {
	DSN         string
	Environment string
	SampleRate  float64
}

func getSentryConfig(v *viper.Viper) *Sentry {
	return &Sentry{
		DSN:         v.GetString("sentry.dsn"),
		Environment: v.GetString("sentry.environment"),
		SampleRate:  v.GetFloat64("sentry.sample_rate"),
	}
}
