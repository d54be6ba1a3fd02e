package config

import (
	"time"

	"github.com/spf13/viper"
)

// Paging bounds page sizes.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// Database holds the SQL connection settings. Driver is one of sqlite3,
// postgres or mysql.
type Database struct {
	Driver          string
	Source          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Redis holds the redis client settings.
type Redis struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Breaker configures the circuit breaker in front of the cache.
type Breaker struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Cache holds cache key and expiry settings.
type Cache struct {
	Prefix  string
	TTL     time.Duration
	Breaker *Breaker
}

// Kafka holds kafka-go settings.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// RabbitMQ holds amqp settings.
type RabbitMQ struct {
	URL      string
	Exchange string
	Queue    string
}

// Messaging groups the brokers.
type Messaging struct {
	Kafka    *Kafka
	RabbitMQ *RabbitMQ
}

// Serve describes the table exposed by the serve command.
type Serve struct {
	Table      string
	Columns    []string
	IDColumn   string
	TimeColumn string
	Descending bool
}

func getPagingConfig(v *viper.Viper) *Paging {
	return &Paging{
		DefaultLimit: v.GetInt("paging.default_limit"),
		MaxLimit:     v.GetInt("paging.max_limit"),
	}
}

func getDatabaseConfig(v *viper.Viper) *Database {
	return &Database{
		Driver:          v.GetString("database.driver"),
		Source:          v.GetString("database.source"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
	}
}

func getRedisConfig(v *viper.Viper) *Redis {
	return &Redis{
		Addr:         v.GetString("redis.addr"),
		Username:     v.GetString("redis.username"),
		Password:     v.GetString("redis.password"),
		DB:           v.GetInt("redis.db"),
		DialTimeout:  v.GetDuration("redis.dial_timeout"),
		ReadTimeout:  v.GetDuration("redis.read_timeout"),
		WriteTimeout: v.GetDuration("redis.write_timeout"),
	}
}

func getCacheConfig(v *viper.Viper) *Cache {
	return &Cache{
		Prefix: v.GetString("cache.prefix"),
		TTL:    v.GetDuration("cache.ttl"),
		Breaker: &Breaker{
			MaxRequests:      v.GetUint32("cache.breaker.max_requests"),
			Interval:         v.GetDuration("cache.breaker.interval"),
			Timeout:          v.GetDuration("cache.breaker.timeout"),
			FailureThreshold: v.GetUint32("cache.breaker.failure_threshold"),
		},
	}
}

func getMessagingConfig(v *viper.Viper) *Messaging {
	return &Messaging{
		Kafka: &Kafka{
			Brokers: v.GetStringSlice("messaging.kafka.brokers"),
			Topic:   v.GetString("messaging.kafka.topic"),
			GroupID: v.GetString("messaging.kafka.group_id"),
		},
		RabbitMQ: &RabbitMQ{
			URL:      v.GetString("messaging.rabbitmq.url"),
			Exchange: v.GetString("messaging.rabbitmq.exchange"),
			Queue:    v.GetString("messaging.rabbitmq.queue"),
		},
	}
}

func getServeConfig(v *viper.Viper) *Serve {
	return &Serve{
		Table:      v.GetString("serve.table"),
		Columns:    v.GetStringSlice("serve.columns"),
		IDColumn:   v.GetString("serve.id_column"),
		TimeColumn: v.GetString("serve.time_column"),
		Descending: v.GetBool("serve.descending"),
	}
}
