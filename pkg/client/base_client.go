package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// abortedError marks a request cut short by the caller's context rather than
// by the upstream.
type abortedError struct {
	err error
}

func (e *abortedError) Error() string { return e.err.Error() }

func (e *abortedError) Unwrap() error { return e.err }

type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	Timeout        time.Duration
	Threshold      int
	BreakerTimeout time.Duration
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := &http.Client{
		Timeout: config.Timeout,
	}

	threshold := uint32(3)
	if config.Threshold > 0 {
		threshold = uint32(config.Threshold)
	}

	// Circuit breaker settings
	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// 4xx means we asked for something odd, not that the upstream is down
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			var ae *abortedError
			return errors.As(err, &ae) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaseClient{
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
	}
}

// Get performs a single GET through the circuit breaker and returns the body
// of a 2xx response.
func (c *BaseClient) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	return body.([]byte), nil
}

func (c *BaseClient) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &abortedError{err: err}
		}
		c.logger.Warn("HTTP request failed",
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &abortedError{err: err}
		}
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	c.logger.Debug("Request successful",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)))

	return body, nil
}
