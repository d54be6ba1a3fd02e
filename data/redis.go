package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/ncrud/config"
	"github.com/redis/go-redis/v9"
)

// NewRedis connects to redis and pings it.
func NewRedis(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redis: address is empty")
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis: failed to ping: %w", err)
	}
	return rc, nil
}
