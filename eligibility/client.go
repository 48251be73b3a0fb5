// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/danielhkuo/voting-sessions/voting"
)

// Status values returned by the eligibility service
const (
	StatusAble   = "ABLE_TO_VOTE"
	StatusUnable = "UNABLE_TO_VOTE"
)

// Defaults used by NewClient
const (
	DefaultTimeout         = 5 * time.Second
	DefaultRetries         = 3
	defaultInitialInterval = 200 * time.Millisecond
	maxBodyBytes           = 1 << 16
)

type statusResponse struct {
	Status string `json:"status"`
}

// Client asks an external service whether a CPF may vote.
type Client struct {
	baseURL         string
	http            *http.Client
	retries         int
	initialInterval time.Duration
	logger          *slog.Logger
}

type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout applies per attempt.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetries sets how many times a failed attempt is retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithInitialInterval sets the first backoff delay.
func WithInitialInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.initialInterval = d
		}
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a client for the service at baseURL. A zero timeout
// means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{Timeout: timeout},
		retries:         DefaultRetries,
		initialInterval: defaultInitialInterval,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check calls GET {base}/users/{cpf}. An unknown CPF yields
// voting.ErrCredentialNotFound. Network errors and 5xx responses are
// retried with exponential backoff.
func (c *Client) Check(ctx context.Context, cpf string) (bool, error) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(cpf)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	attempt := 0
	operation := func() (bool, error) {
		attempt++
		able, err := c.check(ctx, endpoint)
		if err != nil && !isPermanent(err) {
			c.logger.Warn("eligibility check failed", "attempt", attempt, "error", err)
		}
		return able, err
	}

	able, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.retries+1)),
	)
	if err != nil {
		return false, err
	}
	return able, nil
}

func (c *Client) check(ctx context.Context, endpoint string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, backoff.Permanent(fmt.Errorf("build eligibility request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, backoff.Permanent(ctx.Err())
		}
		return false, fmt.Errorf("eligibility request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, backoff.Permanent(voting.ErrCredentialNotFound)
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("eligibility service returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, backoff.Permanent(fmt.Errorf("eligibility service returned %d", resp.StatusCode))
	}

	var body statusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return false, backoff.Permanent(fmt.Errorf("decode eligibility response: %w", err))
	}

	switch body.Status {
	case StatusAble:
		return true, nil
	case StatusUnable:
		return false, nil
	default:
		return false, backoff.Permanent(fmt.Errorf("unexpected eligibility status %q", body.Status))
	}
}

func isPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

// AllowAll treats every credential as eligible.
type AllowAll struct{}

func (AllowAll) Check(context.Context, string) (bool, error) {
	return true, nil
}
