package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	config *Config
	path   string
	mu     sync.RWMutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName   string
	RunMode   string
	Server    *Server
	Logger    *Logger
	Paging    *Paging
	Database  *Database
	Redis     *Redis
	Cache     *Cache
	Messaging *Messaging
	Serve     *Serve
	Tracing   *Tracing
	Sentry    *Sentry
	Viper     *viper.Viper
}

// Server holds the HTTP listener settings.
type Server struct {
	Host string
	Port int
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func init() {
	flag.StringVar(&path, "conf", "", "e.g: bin ./config.yaml")
	v = viper.New()
}

// GetConfig returns the last loaded configuration, loading from the -conf
// flag or the default search paths on first use.
func GetConfig() (*Config, error) {
	mu.RLock()
	cfg := config
	mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}

	if !flag.Parsed() {
		flag.Parse()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	mu.Lock()
	config = cfg
	mu.Unlock()
	return cfg, nil
}

// LoadConfig loads the configuration from the file. An empty path searches
// /etc/ncrud, $HOME/.ncrud, the working directory and the executable's
// directory for config.{yaml,json,toml}.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		path = configPath
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/ncrud")
		v.AddConfigPath("$HOME/.ncrud")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}
	v.SetEnvPrefix("NCRUD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return FromViper(v), nil
}

// FromViper builds a Config from an already populated viper instance, filling
// defaults for anything unset.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)
	return &Config{
		AppName:   v.GetString("app_name"),
		RunMode:   v.GetString("run_mode"),
		Server:    &Server{Host: v.GetString("server.host"), Port: v.GetInt("server.port")},
		Logger:    getLoggerConfig(v),
		Paging:    getPagingConfig(v),
		Database:  getDatabaseConfig(v),
		Redis:     getRedisConfig(v),
		Cache:     getCacheConfig(v),
		Messaging: getMessagingConfig(v),
		Serve:     getServeConfig(v),
		Tracing:   getTracingConfig(v),
		Sentry:    getSentryConfig(v),
		Viper:     v,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "ncrud")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logger.level", 4)
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.redact_fields", []string{"cursor", "next", "*token*"})
	v.SetDefault("paging.default_limit", 256)
	v.SetDefault("paging.max_limit", 1024)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.source", "file::memory:?cache=shared")
	v.SetDefault("database.max_open_conns", 16)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("cache.prefix", "ncrud")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.breaker.max_requests", 5)
	v.SetDefault("cache.breaker.interval", "60s")
	v.SetDefault("cache.breaker.timeout", "30s")
	v.SetDefault("cache.breaker.failure_threshold", 5)
	v.SetDefault("messaging.kafka.group_id", "ncrud")
	v.SetDefault("messaging.rabbitmq.exchange", "ncrud")
	v.SetDefault("serve.id_column", "id")
	v.SetDefault("tracing.sampling_rate", 1.0)
	v.SetDefault("tracing.batch_timeout", "5s")
	v.SetDefault("tracing.export_timeout", "30s")
	v.SetDefault("sentry.sample_rate", 1.0)
}

// Reload reloads the configuration from the file.
func Reload() error {
	newConfig, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	mu.Lock()
	config = newConfig
	mu.Unlock()
	return nil
}

// Watch watches the configuration file and reloads it when it changes. Reload
// errors are passed to onError, if given, and the previous config is kept.
func Watch(callback func(*Config), onError ...func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := Reload(); err != nil {
			for _, fn := range onError {
				fn(err)
			}
			return
		}
		mu.RLock()
		cfg := config
		mu.RUnlock()
		callback(cfg)
	})
	v.WatchConfig()
}
