package mcpclient

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/agentwarden/warden/internal/scanerrors"
)

const (
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 250 * time.Millisecond
	maxJitterFraction     = 0.30
)

// retryClass tells callWithRetry whether an attempt's failure is worth
// retrying.
type retryClass int

const (
	noRetry retryClass = iota
	retryableNetwork
)

// callWithRetry runs attempt up to cfg.MaxRetries+1 times, backing off
// base*2^attempt plus 0-30% jitter between tries. It never retries a -32601
// JSON-RPC error or any 4xx (both are reported via attempt returning
// noRetry), and gives up immediately if ctx is done.
func callWithRetry(ctx context.Context, cfg Config, attempt func(context.Context) (rpcResponse, retryClass, error)) (rpcResponse, error) {
	var lastErr error

	for try := 0; try <= cfg.MaxRetries; try++ {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		resp, class, err := attempt(callCtx)
		cancel()

		if err == nil {
			return resp, nil
		}
		lastErr = err

		if class != retryableNetwork || try == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(backoffDelay(cfg.RetryBaseDelay, try))
		select {
		case <-ctx.Done():
			timer.Stop()
			return rpcResponse{}, ctx.Err()
		case <-timer.C:
		}
	}

	return rpcResponse{}, scanerrors.MCPNetworkError(lastErr)
}

// backoffDelay computes base*2^attempt plus 0-30% jitter.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base << attempt
	jitter := time.Duration(rand.Float64() * maxJitterFraction * float64(d))
	return d + jitter
}
