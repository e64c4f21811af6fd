package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/pr-dupcheck/internal/config"
	"github.com/roivaz/pr-dupcheck/internal/logging"
)

func TestNewPicksLogNotifierWithoutWebhook(t *testing.T) {
	n := New(Config{Logger: logr.Discard()})
	_, ok := n.(*LogNotifier)
	require.True(t, ok)
	assert.NoError(t, n.Send(context.Background(), "hello"))

	n = New(Config{WebhookURL: "http://example.invalid", Logger: logr.Discard()})
	_, ok = n.(*WebhookNotifier)
	assert.True(t, ok)
}

func TestWebhookNotifierPostsText(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{WebhookURL: srv.URL, Logger: logr.Discard()})
	require.NoError(t, n.Send(context.Background(), "duplicate found"))
	assert.Equal(t, "duplicate found", got.Text)
}

func TestWebhookNotifierRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{WebhookURL: srv.URL, Retries: 3, RetryDelay: time.Millisecond, Logger: logr.Discard()})
	require.NoError(t, n.Send(context.Background(), "msg"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestWebhookNotifierDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{WebhookURL: srv.URL, Retries: 3, RetryDelay: time.Millisecond, Logger: logr.Discard()})
	err := n.Send(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_token")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDeliverSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{WebhookURL: srv.URL, Logger: logr.Discard()})
	assert.False(t, Deliver(context.Background(), n, "msg", logging.New(logr.Discard())))
}

func TestDeliverReportsWebhookSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{WebhookURL: srv.URL, Logger: logr.Discard()})
	assert.True(t, Deliver(context.Background(), n, "msg", logging.New(logr.Discard())))
}

func TestDeliverDoesNotCountLoggedMessages(t *testing.T) {
	n := NewLogNotifier(logging.New(logr.Discard()))
	assert.False(t, Deliver(context.Background(), n, "msg", logging.New(logr.Discard())))
}

func TestLoadConfigReadsSlackWebhookVariable(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/x")
	config.Init(nil)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/x", cfg.WebhookURL)

	cfg.Logger = logr.Discard()
	_, ok := New(cfg).(*WebhookNotifier)
	assert.True(t, ok)
}

func TestLoadConfigPrefersWebhookURL(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://example.com/hook")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/x")
	config.Init(nil)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", cfg.WebhookURL)
}
