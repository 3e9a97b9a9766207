package config

import (
	"context"
	"time"
)

// Retry configuration constants
const (
	// Status feed fetch retry configuration
	FeedFetchMaxAttempts       = 3
	FeedFetchInitialWait       = 1 * time.Second
	FeedFetchMaxWait           = 10 * time.Second
	FeedFetchBackoffMultiplier = 2.0
	FeedFetchTimeout           = 30 * time.Second

	// Deploy connection retry configuration
	DeployMaxAttempts       = 3
	DeployInitialWait       = 2 * time.Second
	DeployMaxWait           = 20 * time.Second
	DeployBackoffMultiplier = 2.0
	DeployTimeout           = 30 * time.Second
)

// RetryConfig defines retry behavior for operations
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// ResilienceConfig contains all retry configurations
type ResilienceConfig struct {
	FeedFetch RetryConfig
	Deploy    RetryConfig
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	FeedFetch: RetryConfig{
		MaxAttempts: FeedFetchMaxAttempts,
		InitialWait: FeedFetchInitialWait,
		MaxWait:     FeedFetchMaxWait,
		Multiplier:  FeedFetchBackoffMultiplier,
		Timeout:     FeedFetchTimeout,
	},
	Deploy: RetryConfig{
		MaxAttempts: DeployMaxAttempts,
		InitialWait: DeployInitialWait,
		MaxWait:     DeployMaxWait,
		Multiplier:  DeployBackoffMultiplier,
		Timeout:     DeployTimeout,
	},
}

// Attempts returns MaxAttempts, never less than one
func (r RetryConfig) Attempts() int {
	if r.MaxAttempts < 1 {
		return 1
	}
	return r.MaxAttempts
}

// Backoff returns the wait before retry number attempt (1-based), capped at MaxWait
func (r RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	wait := float64(r.InitialWait)
	multiplier := r.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	for i := 1; i < attempt; i++ {
		wait *= multiplier
		if r.MaxWait > 0 && wait >= float64(r.MaxWait) {
			return r.MaxWait
		}
	}

	if r.MaxWait > 0 && time.Duration(wait) > r.MaxWait {
		return r.MaxWait
	}
	return time.Duration(wait)
}

// Wait sleeps for the backoff of the given attempt or until ctx is done
func (r RetryConfig) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.Backoff(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
