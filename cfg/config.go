package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type DuffelConfig struct {
	APIToken       string
	APIVersion     string
	BaseURL        string
	TimeoutSeconds int
	RatePerSecond  int
	Burst          int
}

type CacheConfig struct {
	SearchTTLMinutes   int
	CalendarTTLMinutes int
}

type ObservabilityConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type NotifyConfig struct {
	BookingQueueName string
}

type Config struct {
	AppEnv        string
	AppPort       string
	NodeID        int64
	Duffel        DuffelConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Observability ObservabilityConfig
	Notify        NotifyConfig
}

func Load() (*Config, error) {
	var errs []error

	// .env is optional; deployed environments inject variables directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := envOr("APP_ENV", "development")
	appPort := envOr("APP_PORT", "8080")
	nodeID := intEnv("NODE_ID", 1, &errs)

	duffelToken := mustEnv("DUFFEL_API_TOKEN", &errs)
	duffelVersion := envOr("DUFFEL_API_VERSION", "v2")
	duffelBaseURL := envOr("DUFFEL_BASE_URL", "https://api.duffel.com/air")
	timeoutSeconds := intEnv("UPSTREAM_HTTP_TIMEOUT_SECONDS", 35, &errs)
	ratePerSecond := intEnv("UPSTREAM_RATE_PER_SECOND", 20, &errs)
	burst := intEnv("UPSTREAM_BURST", 10, &errs)

	searchTTL := intEnv("SEARCH_CACHE_TTL_MINUTES", 5, &errs)
	calendarTTL := intEnv("CALENDAR_CACHE_TTL_MINUTES", 10, &errs)

	otelEnabled := os.Getenv("OTEL_ENABLED") == "true"
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEnabled && otelEndpoint == "" {
		errs = append(errs, errors.New("missing env: OTEL_EXPORTER_OTLP_ENDPOINT"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		NodeID:  int64(nodeID),
		Duffel: DuffelConfig{
			APIToken:       duffelToken,
			APIVersion:     duffelVersion,
			BaseURL:        duffelBaseURL,
			TimeoutSeconds: timeoutSeconds,
			RatePerSecond:  ratePerSecond,
			Burst:          burst,
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     envOr("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Cache: CacheConfig{
			SearchTTLMinutes:   searchTTL,
			CalendarTTLMinutes: calendarTTL,
		},
		Observability: ObservabilityConfig{
			Enabled:      otelEnabled,
			OTLPEndpoint: otelEndpoint,
			ServiceName:  envOr("OTEL_SERVICE_NAME", "travel"),
			Environment:  appEnv,
		},
		Notify: NotifyConfig{
			BookingQueueName: os.Getenv("BOOKING_QUEUE_NAME"),
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}
