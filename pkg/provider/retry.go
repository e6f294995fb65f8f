package provider

import (
	"context"

	"github.com/sells-group/guideline/internal/resilience"
)

// retrying wraps a Provider with transient-failure retries.
type retrying struct {
	inner Provider
	cfg   resilience.RetryConfig
}

// WithRetry decorates p so Compose retries transient backend failures with
// exponential backoff. maxAttempts <= 1 returns p unchanged.
func WithRetry(p Provider, maxAttempts int) Provider {
	if maxAttempts <= 1 {
		return p
	}
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = maxAttempts
	cfg.OnRetry = resilience.RetryLogger("provider", "compose")
	return &retrying{inner: p, cfg: cfg}
}

func (r *retrying) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (*ComposeResult, error) {
		return r.inner.Compose(ctx, req)
	})
}
