// Package backend talks to the task-execution service over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"taskchat/pkg/config"
	"taskchat/pkg/logging"
	"taskchat/pkg/retry"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxErrorBody = 2048

// Options configures a Client. Zero timeouts disable the per-call deadline.
type Options struct {
	BaseURL        string
	Policy         retry.Policy
	RequestTimeout time.Duration
	HealthTimeout  time.Duration
	ProbeTimeout   time.Duration
	HTTPClient     *http.Client
	// Timer replaces the wall clock between retry attempts.
	Timer backoff.Timer
}

// Client is safe for concurrent use. The base URL and retry policy can be
// swapped while requests are running; in-flight requests keep the old values.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	policy  retry.Policy

	http           *http.Client
	requestTimeout time.Duration
	healthTimeout  time.Duration
	probeTimeout   time.Duration
	timer          backoff.Timer
}

// New creates a client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	policy := opts.Policy
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy()
	}
	return &Client{
		baseURL:        normalizeBaseURL(opts.BaseURL),
		policy:         policy,
		http:           httpClient,
		requestTimeout: opts.RequestTimeout,
		healthTimeout:  opts.HealthTimeout,
		probeTimeout:   opts.ProbeTimeout,
		timer:          opts.Timer,
	}
}

// NewFromConfig creates a client from the application config.
func NewFromConfig(cfg config.Config) *Client {
	return New(Options{
		BaseURL:        cfg.BackendURL,
		Policy:         PolicyFromConfig(cfg),
		RequestTimeout: cfg.RequestTimeout(),
		HealthTimeout:  cfg.HealthTimeout(),
		ProbeTimeout:   cfg.ProbeTimeout(),
	})
}

// PolicyFromConfig maps max_retries and retry_delay_ms to a retry policy.
func PolicyFromConfig(cfg config.Config) retry.Policy {
	return retry.Policy{MaxAttempts: cfg.MaxRetries, BaseDelay: cfg.RetryDelay()}
}

// BaseURL returns the current backend base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the backend base URL.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = normalizeBaseURL(baseURL)
	c.mu.Unlock()
}

// Policy returns the current retry policy.
func (c *Client) Policy() retry.Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy
}

// SetPolicy swaps the retry policy. Policies without attempts are ignored.
func (c *Client) SetPolicy(p retry.Policy) {
	if p.MaxAttempts <= 0 {
		return
	}
	c.mu.Lock()
	c.policy = p
	c.mu.Unlock()
}

// Apply pushes reloaded config values into the client.
func (c *Client) Apply(cfg config.Config) {
	c.SetBaseURL(cfg.BackendURL)
	c.SetPolicy(PolicyFromConfig(cfg))
}

// Run posts task to /run, retrying transport failures, non-2xx statuses and
// undecodable bodies. The error of the final attempt is returned.
func (c *Client) Run(ctx context.Context, task string) (RunResponse, error) {
	c.mu.RLock()
	endpoint := c.baseURL + "/run"
	policy := c.policy
	c.mu.RUnlock()

	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}

	payload, err := json.Marshal(RunRequest{Task: task})
	if err != nil {
		return RunResponse{}, errors.Wrap(err, "encode run request")
	}

	var out RunResponse
	op := func(ctx context.Context, attempt int) error {
		slog.Debug("backend_attempt",
			"request_id", requestID,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"url", endpoint,
		)
		resp, err := c.runOnce(ctx, endpoint, requestID, payload)
		if err != nil {
			return err
		}
		out = resp
		return nil
	}

	opts := []retry.Option{
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			slog.Warn("backend_attempt_failed",
				"request_id", requestID,
				"attempt", attempt,
				"retry_in", delay,
				"error", err.Error(),
			)
		}),
	}
	if c.timer != nil {
		opts = append(opts, retry.WithTimer(c.timer))
	}

	start := time.Now()
	if err := retry.Do(ctx, policy, op, opts...); err != nil {
		slog.Error("backend_run_failed",
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return RunResponse{}, err
	}

	slog.Info("backend_run_done",
		"request_id", requestID,
		"status", out.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) runOnce(ctx context.Context, endpoint, requestID string, payload []byte) (RunResponse, error) {
	ctx, cancel := withTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return RunResponse{}, retry.Permanent(errors.Wrap(err, "create run request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return RunResponse{}, errors.Wrap(err, "post run")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return RunResponse{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RunResponse{}, errors.Wrap(err, "read run response")
	}
	slog.Log(ctx, logging.LevelTrace, "backend_response_body",
		"request_id", requestID,
		"body", string(body),
	)

	var out RunResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return RunResponse{}, errors.Wrapf(ErrMalformedResponse, "decode run response: %v", err)
	}
	return out, nil
}

// Health issues a single GET /health. Any 2xx status means connected.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, c.healthTimeout)
	defer cancel()

	endpoint := c.BaseURL() + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "create health request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "get health")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	return checkStatus(resp)
}

// Probe issues a single GET on path and reports the status and decoded body.
// Non-2xx statuses are part of the result, not an error.
func (c *Client) Probe(ctx context.Context, path string) (ProbeResult, error) {
	ctx, cancel := withTimeout(ctx, c.probeTimeout)
	defer cancel()

	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint := c.BaseURL() + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ProbeResult{}, errors.Wrap(err, "create probe request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ProbeResult{}, errors.Wrapf(err, "probe %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ProbeResult{}, errors.Wrapf(err, "read probe %s", path)
	}

	result := ProbeResult{Status: resp.StatusCode}
	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		result.Data = data
	} else {
		result.Data = strings.TrimSpace(string(body))
	}

	slog.Debug("backend_probe", "path", path, "status", resp.StatusCode)
	return result, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Code:   resp.StatusCode,
		Status: http.StatusText(resp.StatusCode),
		Body:   strings.TrimSpace(string(body)),
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
