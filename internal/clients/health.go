package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// defaultHealthTimeout bounds a health check when the caller gives none.
const defaultHealthTimeout = 2 * time.Second

// HealthReport is what one check of the Content API's /health endpoint saw.
// Service is the name the API reported, or the client's name when the API
// could not be read.
type HealthReport struct {
	Service    string `json:"service"`
	Healthy    bool   `json:"healthy"`
	Status     string `json:"status,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`

	err error
}

// Err is nil for a healthy report, otherwise an *APIError classed like any
// other Content API failure.
func (h HealthReport) Err() error { return h.err }

type healthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health checks that the API answers {"status":"ok"} within timeout.
func (cc *ContentClient) Health(ctx context.Context, timeout time.Duration) HealthReport {
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body healthBody
	err := cc.call(ctx, http.MethodGet, "/health", "", nil, &body)
	if err == nil && body.Status != "ok" {
		err = &APIError{
			Service:    cc.c.Name,
			Method:     http.MethodGet,
			Path:       "/health",
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("reported status %q", body.Status),
			kind:       ErrNetwork,
		}
	}

	rep := HealthReport{Service: cc.c.Name, Status: body.Status, err: err}
	if body.Service != "" {
		rep.Service = body.Service
	}
	var apiErr *APIError
	switch {
	case err == nil:
		rep.Healthy = true
		rep.StatusCode = http.StatusOK
	case errors.As(err, &apiErr):
		rep.StatusCode = apiErr.StatusCode
		rep.Error = err.Error()
	default:
		rep.Error = err.Error()
	}
	return rep
}
