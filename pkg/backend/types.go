package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// StatusSuccess is the only application status treated as a reply.
const StatusSuccess = "success"

// RequestIDHeader carries the per-submit correlation id on every attempt.
const RequestIDHeader = "X-Request-ID"

// ErrMalformedResponse is wrapped into errors for bodies that do not decode.
var ErrMalformedResponse = errors.New("malformed backend response")

// RunRequest is the body of POST /run.
type RunRequest struct {
	Task string `json:"task"`
}

// RunResponse is the body returned by POST /run.
type RunResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

// OK reports whether the backend finished the task.
func (r RunResponse) OK() bool {
	return r.Status == StatusSuccess
}

// StatusError is returned for any non-2xx HTTP response.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// ProbeResult is the outcome of a single diagnostic GET.
type ProbeResult struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// OK reports a 2xx status.
func (p ProbeResult) OK() bool {
	return p.Status >= 200 && p.Status < 300
}

// Pretty renders the result as indented JSON.
func (p ProbeResult) Pretty() string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"status\": %d}", p.Status)
	}
	return string(data)
}

type requestIDKey struct{}

// WithRequestID attaches id to ctx so Run sends it instead of generating one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}
