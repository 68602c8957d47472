package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// RetryPolicy retries transient failures a fixed number of times with a fixed delay.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

// isTransient reports whether a failure may succeed on a later attempt.
func isTransient(err error) bool {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	if domainErr.Code == apperrors.CodeNetworkUnreachable {
		return true
	}
	switch domainErr.HTTPStatus {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return domainErr.Code == apperrors.CodeBackendRejected && domainErr.HTTPStatus >= 500
}

// doWithRetry runs req, retrying transient failures per policy.
func (c *Client) doWithRetry(ctx context.Context, req call, policy RetryPolicy) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, req)
		if err == nil || attempt >= policy.Retries || !isTransient(err) {
			return body, err
		}

		c.logger.Info("retrying request",
			zap.String("op", req.op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", policy.Delay),
			zap.Error(err))

		if policy.Delay > 0 {
			timer := time.NewTimer(policy.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, apperrors.NewNetworkUnreachable(ctx.Err())
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return nil, apperrors.NewNetworkUnreachable(ctx.Err())
		}
	}
}
