package chain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
)

var (
	// ErrUnknownChain is returned for chain ids missing from the registry.
	ErrUnknownChain = errors.New("unknown chain")
	// ErrEmptyReturn means the call succeeded but returned no data.
	ErrEmptyReturn = errors.New("empty return data")
)

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Too Many Requests") || strings.Contains(s, "-32005")
}

// callWithRetry performs eth_call and backs off on provider throttling.
// Reverts and other errors are returned immediately.
func (r *Reader) callWithRetry(ctx context.Context, c Caller, msg ethereum.CallMsg) ([]byte, error) {
	select {
	case r.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-r.gate }()

	backoff := r.backoff
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		ret, err := c.CallContract(ctx, msg, nil)
		if err == nil {
			if len(ret) == 0 {
				return nil, ErrEmptyReturn
			}
			return ret, nil
		}
		lastErr = err
		if !isRateLimitError(err) || attempt == r.maxAttempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, lastErr
}

// DescribeCallError tags a failed read for logs.
func DescribeCallError(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	switch {
	case isRateLimitError(err):
		return "[RATE_LIMIT] provider throttled the request"
	case errors.Is(err, ErrEmptyReturn):
		return "[NO_DATA] method missing or not a contract"
	case strings.Contains(s, "execution reverted"):
		if _, reason, ok := strings.Cut(s, "execution reverted:"); ok && strings.TrimSpace(reason) != "" {
			return "[REVERT] " + strings.TrimSpace(reason)
		}
		return "[REVERT] execution reverted"
	case strings.Contains(s, "abi"):
		return "[UNSUPPORTED] return type mismatch"
	}
	return "[RPC] " + s
}
