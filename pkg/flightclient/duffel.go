package flightclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"travel/internal/flight"
	"travel/pkg/logger"
)

const maxResponseBytes = 16 << 20

type Config struct {
	Token         string
	Version       string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// DuffelClient is the flight.UpstreamClient for the Duffel Air API.
type DuffelClient struct {
	httpClient *http.Client
	baseURL    string
	version    string
	hasToken   bool
	limiter    *rate.Limiter
	logger     logger.Client
	tracer     trace.Tracer
}

// NewDuffelClient builds a client whose transport injects the bearer token.
// A zero RatePerSecond leaves outgoing calls unthrottled.
func NewDuffelClient(config Config, logger logger.Client) *DuffelClient {
	base := &http.Client{Timeout: config.Timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: config.Token,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = config.Timeout

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RatePerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), burst)
	}

	version := config.Version
	if version == "" {
		version = "v2"
	}

	return &DuffelClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		version:    version,
		hasToken:   config.Token != "",
		limiter:    limiter,
		logger:     logger,
		tracer:     otel.Tracer("travel/pkg/flightclient"),
	}
}

func (d *DuffelClient) CheckCredentials() error {
	if !d.hasToken {
		return flight.NewConfigurationError("Server misconfiguration: missing API token")
	}
	return nil
}

func (d *DuffelClient) Get(ctx context.Context, path string) (*flight.UpstreamResponse, error) {
	return d.do(ctx, http.MethodGet, path, nil)
}

func (d *DuffelClient) Post(ctx context.Context, path string, body any) (*flight.UpstreamResponse, error) {
	return d.do(ctx, http.MethodPost, path, body)
}

func (d *DuffelClient) do(ctx context.Context, method, path string, body any) (*flight.UpstreamResponse, error) {
	if err := d.CheckCredentials(); err != nil {
		return nil, err
	}

	ctx, span := d.tracer.Start(ctx, "duffel "+method, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	resp, err := d.send(ctx, method, path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
	if !resp.OK() {
		span.SetStatus(codes.Error, resp.ErrorMessage())
		d.logger.Error("duffel: non-2xx response",
			logger.Field{Key: "method", Value: method},
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "status", Value: resp.Status},
			logger.Field{Key: "body", Value: truncate(string(resp.Body), 512)},
		)
	}
	return resp, nil
}

func (d *DuffelClient) send(ctx context.Context, method, path string, body any) (*flight.UpstreamResponse, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("duffel: rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("duffel: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	r, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("duffel: failed to build request: %w", err)
	}
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Duffel-Version", d.version)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("duffel: external api call failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("duffel: failed to read response: %w", err)
	}

	return &flight.UpstreamResponse{Status: resp.StatusCode, Body: data}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
