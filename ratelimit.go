package csvlate

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedClient paces calls to a Client with a token bucket, for
// services that reject bursts with 429 responses.
type RateLimitedClient struct {
	client  Client
	limiter *rate.Limiter
}

// NewRateLimitedClient allows requestsPerMinute calls per minute with bursts
// of up to burst calls. Non-positive values default to 60 and 1.
func NewRateLimitedClient(client Client, requestsPerMinute, burst int) *RateLimitedClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(requestsPerMinute)
	return &RateLimitedClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(every), burst),
	}
}

// Translate waits for a token and then calls the wrapped client.
func (c *RateLimitedClient) Translate(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		// The deadline ends before the next token would arrive.
		return "", &ProviderError{Message: "rate limit wait", Cause: err}
	}
	return c.client.Translate(ctx, req)
}

// Limit reports the configured request interval and burst.
func (c *RateLimitedClient) Limit() (every time.Duration, burst int) {
	return time.Duration(float64(time.Second) / float64(c.limiter.Limit())), c.limiter.Burst()
}
