// Package gateway wraps the storefront REST backend, one type per resource.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/observability"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

const defaultTimeout = 5 * time.Second

// TokenSource supplies the bearer credential, when there is one.
type TokenSource interface {
	GetToken(ctx context.Context) (string, bool)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Timeout    time.Duration
	Metrics    *observability.Metrics
	Logger     *zap.Logger

	// OnUnauthorized runs when the backend rejects the credential of an
	// authenticated call, before the error is returned.
	OnUnauthorized func(ctx context.Context)
}

// Client is the shared transport for every resource.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	timeout        time.Duration
	metrics        *observability.Metrics
	logger         *zap.Logger
	onUnauthorized func(ctx context.Context)
}

// NewClient builds a client.
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           opts.HTTPClient,
		tokens:         opts.Tokens,
		timeout:        opts.Timeout,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// SetUnauthorizedHandler replaces the 401 hook.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// call describes one backend request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any

	// op labels metrics and logs.
	op string
	// fallback is the message surfaced when the backend supplies none.
	fallback string
	// anonymous calls never trigger the unauthorized hook.
	anonymous bool
	timeout   time.Duration
}

// do performs the call and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, req call) ([]byte, error) {
	timeout := req.timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var payload io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		payload = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, payload)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.GetToken(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.RecordError(req.op, req.method, apperrors.CodeNetworkUnreachable)
		c.logger.Warn("backend unreachable", zap.String("op", req.op), zap.Error(err))
		return nil, apperrors.NewNetworkUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.RecordRequest(req.op, req.method, resp.StatusCode, time.Since(start))
	if err != nil {
		c.metrics.RecordError(req.op, req.method, apperrors.CodeNetworkUnreachable)
		return nil, apperrors.NewNetworkUnreachable(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return body, nil
	}

	failure := c.classify(ctx, req, resp.StatusCode, body)
	c.metrics.RecordError(req.op, req.method, apperrors.ToDomainError(failure).Code)
	c.logger.Debug("backend rejected request",
		zap.String("op", req.op),
		zap.Int("status", resp.StatusCode),
		zap.Error(failure))
	return nil, failure
}

func (c *Client) classify(ctx context.Context, req call, status int, body []byte) error {
	message := backendMessage(body)
	if message == "" {
		message = req.fallback
	}

	switch status {
	case http.StatusUnauthorized:
		if req.anonymous {
			return apperrors.NewUnauthenticated(message)
		}
		if c.onUnauthorized != nil {
			// The request context may already be done; teardown must still run.
			c.onUnauthorized(context.WithoutCancel(ctx))
		}
		return apperrors.NewSessionExpired()
	case http.StatusForbidden:
		return apperrors.NewForbidden(message)
	case http.StatusNotFound:
		return apperrors.NewDomainError(apperrors.CodeNotFound, message, status, nil)
	default:
		return apperrors.NewBackendRejected(message, status)
	}
}

// getJSON performs req and decodes the envelope's data into out.
func (c *Client) getJSON(ctx context.Context, req call, out any) error {
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	return decodeData(body, req.op, out)
}

// send performs req and returns the backend's acknowledgement message.
func (c *Client) send(ctx context.Context, req call) (string, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return backendMessage(body), nil
}

var errNoData = errors.New("response has no data")
