package requester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/logger"
	"go.uber.org/zap"
)

// DefaultTimeout bounds outbound calls when the provider config leaves it unset
const DefaultTimeout = 10 * time.Second

// HTTPRequester executes single outbound provider calls. It never retries.
type HTTPRequester struct {
	client *http.Client
}

// NewHTTPRequester creates a new HTTPRequester using the provider timeout
func NewHTTPRequester(cfg *config.Config) *HTTPRequester {
	timeout := cfg.Provider.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRequester{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// Do builds and executes a request, returning the fully read response.
// A non-2xx status is not an error at this level.
func (r *HTTPRequester) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// the query may carry credentials, only the path is logged
	logger.Debug("outbound request",
		zap.String("method", httpReq.Method),
		zap.String("host", httpReq.URL.Host),
		zap.String("path", httpReq.URL.Path),
	)

	return r.execute(httpReq)
}

// execute performs the actual HTTP request execution
func (r *HTTPRequester) execute(httpReq *http.Request) (resp *Response, err error) {
	start := time.Now()
	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(httpReq.URL)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
			resp = nil
		}
	}()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("outbound response",
		zap.String("path", httpReq.URL.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Body:       bodyBytes,
		Headers:    httpResp.Header,
	}, nil
}

// redactURL drops the query string, which may hold client secrets or access tokens
func redactURL(u *url.URL) string {
	redacted := *u
	redacted.RawQuery = ""
	redacted.User = nil
	return redacted.String()
}
