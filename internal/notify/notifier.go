package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/go-logr/logr"

	"github.com/roivaz/pr-dupcheck/internal/config"
	"github.com/roivaz/pr-dupcheck/internal/logging"
)

// Notifier delivers a rendered message.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

type Config struct {
	WebhookURL string
	Retries    int
	Timeout    time.Duration
	RetryDelay time.Duration
	Logger     logr.Logger
}

func LoadConfig() (Config, error) {
	timeout, err := time.ParseDuration(config.HTTPTimeout())
	if err != nil {
		return Config{}, fmt.Errorf("invalid http_timeout: %w", err)
	}
	return Config{
		WebhookURL: config.WebhookURL(),
		Retries:    config.HTTPRetries(),
		Timeout:    timeout,
	}, nil
}

// New returns a WebhookNotifier, or a LogNotifier when no webhook is
// configured.
func New(cfg Config) Notifier {
	if cfg.WebhookURL == "" {
		return NewLogNotifier(logging.New(cfg.Logger))
	}
	return NewWebhookNotifier(cfg)
}

// Deliver sends message and logs, rather than returns, any failure. It
// reports whether the message reached a webhook; a LogNotifier never counts.
func Deliver(ctx context.Context, n Notifier, message string, log logging.Logger) bool {
	if err := n.Send(ctx, message); err != nil {
		log.Error(err, "notification delivery failed")
		return false
	}
	_, logged := n.(*LogNotifier)
	return !logged
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithName("notify")}
}

func (n *LogNotifier) Send(_ context.Context, message string) error {
	n.log.Info("no webhook configured, logging notification", "message", message)
	return nil
}

// WebhookNotifier posts {"text": message} to a Slack-compatible webhook.
type WebhookNotifier struct {
	url      string
	client   *http.Client
	attempts uint
	delay    time.Duration
	log      logging.Logger
}

func NewWebhookNotifier(cfg Config) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &WebhookNotifier{
		url:      cfg.WebhookURL,
		client:   &http.Client{Timeout: timeout},
		attempts: uint(attempts),
		delay:    delay,
		log:      logging.New(cfg.Logger).WithName("notify"),
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

var errClientStatus = errors.New("webhook rejected message")

func (n *WebhookNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Text: message})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	err = retry.Do(
		func() error {
			err := n.post(ctx, body)
			if errors.Is(err, errClientStatus) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(n.delay),
		retry.OnRetry(func(attempt uint, err error) {
			n.log.Info("retrying webhook delivery", "attempt", attempt+1, "max", n.attempts, "error", err.Error())
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	n.log.Info("notification delivered")
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	default:
		return fmt.Errorf("%w: status %d: %s", errClientStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}
}
