package embed

import (
	"context"
	"fmt"
	"time"
)

// warmProbeText primes both the remote model and the local cache.
const warmProbeText = "a well loved novel about friendship and adventure"

// RetryConfig configures retry behavior for warm-up calls.
type RetryConfig struct {
	MaxRetries   int           // Maximum number of retry attempts (not including initial attempt)
	InitialDelay time.Duration // Delay before first retry
	MaxDelay     time.Duration // Maximum delay between retries
	Multiplier   float64       // Multiplier for exponential backoff
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     16 * time.Second,
		Multiplier:   2.0,
	}
}

// Warm embeds a probe text so the first user request hits a loaded model.
// Cold model loads on the inference side surface as timeouts; those and
// rate limits are retried with exponential backoff, capped at MaxDelay.
// Other kinds return immediately since retrying cannot fix them. If the
// context is cancelled, the context error is returned right away.
func Warm(ctx context.Context, e Embedder, cfg RetryConfig) error {
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, err := e.Embed(ctx, warmProbeText)
		if err == nil {
			return nil
		}
		lastErr = err

		switch KindOf(err) {
		case KindTimeout, KindRateLimited:
		default:
			return err
		}

		if attempt >= cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("warm embedder failed after %d retries: %w", cfg.MaxRetries, lastErr)
}
