package httpclient

import (
	"net/http"
	"time"

	"shipdesk/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs every outbound call made by one named client.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Name identifies the calling component in log entries (e.g. "carrier", "workflow").
	Name string
}

// RoundTrip executes the request and logs method, path, status and latency.
// Query strings are left out of the log since carrier URLs may carry credentials.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Get().With(
		zap.String("client", lrt.Name),
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
	)

	log.Debug("HTTP Request Started")

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{zap.Int("status_code", resp.StatusCode), zap.Duration("duration", duration)}
	if resp.StatusCode >= http.StatusInternalServerError {
		log.Warn("HTTP Request Completed With Server Error", fields...)
	} else {
		log.Debug("HTTP Request Completed", fields...)
	}

	return resp, nil
}

// NewClient returns an http.Client with logging middleware and a hard timeout.
func NewClient(name string, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
			Name:    name,
		},
		Timeout: timeout,
	}
}
