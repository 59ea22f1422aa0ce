package flightclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel/internal/flight"
	"travel/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *DuffelClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewDuffelClient(Config{
		Token:   token,
		Version: "v2",
		BaseURL: srv.URL + "/air/",
		Timeout: 5 * time.Second,
	}, logger.NewNop())
}

func TestDuffelClient_Post(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/air/offer_requests", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("return_offers"))
		assert.Equal(t, "Bearer duffel_test_tok", r.Header.Get("Authorization"))
		assert.Equal(t, "v2", r.Header.Get("Duffel-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"offers":[]}}`))
	}, "duffel_test_tok")

	resp, err := client.Post(context.Background(), "/offer_requests?return_offers=true", map[string]any{"data": map[string]any{"cabin_class": "economy"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"data":{"offers":[]}}`, string(resp.Body))
	assert.Equal(t, map[string]any{"data": map[string]any{"cabin_class": "economy"}}, gotBody)
}

func TestDuffelClient_NonSuccessIsReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air/offers/off_missing", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Offer not found"}]}`))
	}, "tok")

	resp, err := client.Get(context.Background(), "/offers/off_missing")
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, "Offer not found", resp.ErrorMessage())
}

func TestDuffelClient_MissingToken(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	_, err := client.Get(context.Background(), "/offers/off_1")

	var appErr *flight.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, flight.ErrorCodeConfiguration, appErr.Code)
	assert.False(t, called)
	assert.Error(t, client.CheckCredentials())
}

func TestDuffelClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/offers/off_1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDuffelClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewDuffelClient(Config{
		Token: "tok", BaseURL: srv.URL, Timeout: time.Second,
		RatePerSecond: 1, Burst: 1,
	}, logger.NewNop())

	_, err := client.Get(context.Background(), "/offers/a")
	require.NoError(t, err)

	// the bucket is empty and the deadline is shorter than the refill
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, "/offers/b")
	assert.Error(t, err)
}
