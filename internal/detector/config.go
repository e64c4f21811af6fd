package detector

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/roivaz/pr-dupcheck/internal/config"
	"github.com/roivaz/pr-dupcheck/internal/similarity"
)

const (
	DefaultLookback         = 7 * 24 * time.Hour
	DefaultFetchConcurrency = 4
)

// OrderingPolicy decides what happens when the pull request listing is not
// sorted by descending update time.
type OrderingPolicy string

const (
	// OrderingBestEffort logs the violation and keeps scanning.
	OrderingBestEffort OrderingPolicy = "best-effort"
	// OrderingStrict aborts the run with ErrListingOutOfOrder.
	OrderingStrict OrderingPolicy = "strict"
)

type Config struct {
	Lookback         time.Duration
	Weights          similarity.Weights
	Thresholds       similarity.Thresholds
	FetchConcurrency int
	Ordering         OrderingPolicy
	Logger           logr.Logger
}

func DefaultConfig() Config {
	return Config{
		Lookback:         DefaultLookback,
		Weights:          similarity.DefaultWeights(),
		Thresholds:       similarity.DefaultThresholds(),
		FetchConcurrency: DefaultFetchConcurrency,
		Ordering:         OrderingBestEffort,
	}
}

func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	lookback, err := parseDuration(config.Lookback(), DefaultLookback)
	if err != nil {
		return Config{}, fmt.Errorf("invalid lookback: %w", err)
	}
	cfg.Lookback = lookback
	cfg.Weights = similarity.Weights{File: config.FileWeight(), Text: config.TextWeight()}
	cfg.Thresholds = similarity.Thresholds{
		MinScore:       config.MinScore(),
		MinFileOverlap: config.MinFileOverlap(),
		TopN:           config.TopN(),
	}
	cfg.FetchConcurrency = config.FetchConcurrency()
	if config.StrictOrdering() {
		cfg.Ordering = OrderingStrict
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Lookback <= 0 {
		errs = append(errs, fmt.Errorf("lookback must be positive, got %s", c.Lookback))
	}
	if c.Weights.File < 0 || c.Weights.Text < 0 {
		errs = append(errs, fmt.Errorf("weights must not be negative"))
	}
	if math.Abs(c.Weights.File+c.Weights.Text-1) > 1e-9 {
		errs = append(errs, fmt.Errorf("file_weight + text_weight must equal 1, got %g", c.Weights.File+c.Weights.Text))
	}
	if c.Thresholds.MinScore < 0 || c.Thresholds.MinScore > 1 {
		errs = append(errs, fmt.Errorf("min_score must be within [0,1], got %g", c.Thresholds.MinScore))
	}
	if c.Thresholds.MinFileOverlap < 0 || c.Thresholds.MinFileOverlap > 1 {
		errs = append(errs, fmt.Errorf("min_file_overlap must be within [0,1], got %g", c.Thresholds.MinFileOverlap))
	}
	if c.Thresholds.TopN < 1 {
		errs = append(errs, fmt.Errorf("top_n must be at least 1, got %d", c.Thresholds.TopN))
	}
	switch c.Ordering {
	case OrderingBestEffort, OrderingStrict, "":
	default:
		errs = append(errs, fmt.Errorf("unknown ordering policy %q", c.Ordering))
	}
	return errors.Join(errs...)
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	return d, nil
}
