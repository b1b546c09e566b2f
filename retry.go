package csvlate

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Total number of attempts
	BaseDelay  time.Duration // Delay after the first failure, doubled per attempt
	MaxDelay   time.Duration // Upper bound for a single delay (0 = uncapped)

	// StopOnPermanent ends the loop at the first error IsRetryable rejects,
	// such as a refused API key. Off by default: every failure gets
	// MaxRetries attempts.
	StopOnPermanent bool

	// Sleep waits between attempts. Defaults to a context-aware timer;
	// tests substitute a recorder.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryConfig returns the retry behavior used for every cell:
// five attempts, starting at 800ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 5,
		BaseDelay:  800 * time.Millisecond,
	}
}

// normalize fills zero values with defaults.
func (c RetryConfig) normalize() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	return c
}

// delay returns the backoff before the attempt following the given one.
func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.BaseDelay * time.Duration(1<<attempt)
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn with exponential backoff. It makes at most
// cfg.MaxRetries attempts and sleeps BaseDelay*2^attempt after each failed
// attempt that will be retried. Context errors stop immediately, as do
// permanent errors when cfg.StopOnPermanent is set. Exhaustion yields a
// *TranslationFailedError carrying the last error.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	cfg = cfg.normalize()

	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if isContextError(err) {
			return zero, err
		}
		if cfg.StopOnPermanent && !IsRetryable(err) {
			return zero, &TranslationFailedError{Attempts: attempt + 1, Cause: err}
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries-1 {
			if err := cfg.Sleep(ctx, cfg.delay(attempt)); err != nil {
				return zero, err
			}
		}
	}

	return zero, &TranslationFailedError{Attempts: cfg.MaxRetries, Cause: lastErr}
}

// IsRetryable checks if an error is worth another attempt. Authorization
// and context errors are final; provider errors carry their own flag; any
// other failure is assumed transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrAuth) {
		return false
	}

	if isContextError(err) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return true
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// TranslateWithRetry translates one text to one target language with the
// fixed source language, formatting preserved and sentence splitting
// limited to newlines.
func TranslateWithRetry(ctx context.Context, client Client, text, targetLang string, cfg RetryConfig) (string, error) {
	req := Request{
		Text:               text,
		TargetLang:         targetLang,
		SourceLang:         SourceLang,
		PreserveFormatting: true,
		SplitSentences:     SplitNoNewlines,
		Formality:          FormalityDefault,
	}
	return WithRetry(ctx, cfg, func() (string, error) {
		return client.Translate(ctx, req)
	})
}
