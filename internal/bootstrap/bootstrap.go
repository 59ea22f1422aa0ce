package bootstrap

import (
	"context"
	"fmt"
	"time"

	"travel/cfg"
	"travel/internal/flight"
	"travel/pkg/cache"
	"travel/pkg/flightclient"
	"travel/pkg/logger"
	"travel/pkg/notify"
	"travel/pkg/refdata"
)

// NewCache picks Redis when a host is configured. An unreachable Redis degrades
// to process memory so searches keep working.
func NewCache(ctx context.Context, config cfg.RedisConfig, log logger.Client) cache.Cache {
	if !config.Enabled() {
		return cache.NewMemoryCache()
	}

	addr := config.Host + ":" + config.Port
	redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:      addr,
		Password:  config.Password,
		KeyPrefix: "travel:",
	})
	if err != nil {
		log.Warn("redis unavailable, using in-memory cache",
			logger.Field{Key: "addr", Value: addr},
			logger.Field{Key: "error", Value: err},
		)
		return cache.NewMemoryCache()
	}
	return redisCache
}

func NewUpstream(config cfg.DuffelConfig, log logger.Client) *flightclient.DuffelClient {
	return flightclient.NewDuffelClient(flightclient.Config{
		Token:         config.APIToken,
		Version:       config.APIVersion,
		BaseURL:       config.BaseURL,
		Timeout:       time.Duration(config.TimeoutSeconds) * time.Second,
		RatePerSecond: float64(config.RatePerSecond),
		Burst:         config.Burst,
	}, log)
}

// NewFlightService wires the facade with every collaborator the config enables.
func NewFlightService(ctx context.Context, config *cfg.Config, log logger.Client) (*flight.Service, error) {
	ref, err := refdata.Default()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: reference data: %w", err)
	}

	deps := flight.Dependencies{
		Upstream:    NewUpstream(config.Duffel, log),
		Normalizer:  flight.NewDuffelNormalizer(),
		RefData:     ref,
		Cache:       NewCache(ctx, config.Redis, log),
		SearchTTL:   time.Duration(config.Cache.SearchTTLMinutes) * time.Minute,
		CalendarTTL: time.Duration(config.Cache.CalendarTTLMinutes) * time.Minute,
		Logger:      log,
	}

	if queue := config.Notify.BookingQueueName; queue != "" {
		notifier, err := notify.NewSQSNotifierFromEnv(ctx, queue)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: booking notifier: %w", err)
		}
		deps.Notifier = notifier
		log.Info("booking notifications enabled", logger.Field{Key: "queue", Value: queue})
	}

	return flight.NewService(deps), nil
}
