package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/pdbquery/internal/common/logtrace"
)

// HTTPExecutorOptions contains options for configuring the HTTP executor.
type HTTPExecutorOptions struct {
	Timeout   time.Duration // If non-zero, bounds the whole round trip of each call
	UserAgent string        // Sent as User-Agent when set
}

// HTTPExecutor is the network implementation of Executor over net/http.
// Every call builds and tears down its own transport, so nothing is pooled.
type HTTPExecutor struct {
	opts HTTPExecutorOptions
}

// NewHTTPExecutor creates an executor with the given options.
func NewHTTPExecutor(opts ...HTTPExecutorOptions) *HTTPExecutor {
	e := &HTTPExecutor{}
	if len(opts) > 0 {
		e.opts = opts[0]
	}
	return e
}

// SupportsTLS is always true: crypto/tls is part of every Go build.
func (e *HTTPExecutor) SupportsTLS() bool {
	return true
}

// Execute performs a GET against rawURL. The request carries an X-Request-Id taken
// from ctx or freshly generated.
func (e *HTTPExecutor) Execute(ctx context.Context, rawURL string, files *TLSFiles) ([]byte, error) {
	ctx, requestID := logtrace.EnsureRequestId(ctx)
	logger := log.With().Str("request_id", requestID).Str("url", rawURL).Logger()

	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	}
	defer transport.CloseIdleConnections()

	if files != nil {
		tlsConfig, err := NewTLSConfig(*files)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsConfig
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   e.opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if e.opts.UserAgent != "" {
		req.Header.Set("User-Agent", e.opts.UserAgent)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	return body, nil
}
