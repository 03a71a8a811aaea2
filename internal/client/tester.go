package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Zeuyel/MathImage/internal/constant"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// ConnectionTester performs a single reachability check against an endpoint.
// The check is a real round trip: a GET against the configured base URL with
// the credential attached, so both network reachability and authentication
// are exercised. One attempt per call, no retries.
type ConnectionTester struct {
	// Timeout bounds the whole round trip. Zero means the default.
	Timeout time.Duration

	// newClient is replaceable for tests
	newClient func(typ.Endpoint, time.Duration) *http.Client
}

// NewConnectionTester creates a tester with the default timeout
func NewConnectionTester() *ConnectionTester {
	return &ConnectionTester{
		Timeout:   constant.ConnectionTestTimeout * time.Second,
		newClient: NewHTTPClient,
	}
}

// TestConnection issues one request to the endpoint's base URL and reports
// the outcome. A malformed configuration fails immediately without any
// network I/O. Any 2xx status counts as accepted; everything else is a
// failure with a diagnostic kind and, when available, the numeric status.
func (t *ConnectionTester) TestConnection(ctx context.Context, endpoint typ.Endpoint) typ.ConnectionResult {
	if err := endpoint.Validate(); err != nil {
		return typ.ConnectionResult{
			Success:   false,
			Message:   err.Error(),
			ErrorKind: string(KindInvalidConfiguration),
		}
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = constant.ConnectionTestTimeout * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.BaseURL, nil)
	if err != nil {
		return typ.ConnectionResult{
			Success:   false,
			Message:   fmt.Sprintf("failed to create request: %v", err),
			ErrorKind: string(KindInvalidConfiguration),
		}
	}
	if endpoint.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+endpoint.APIKey)
	}

	newClient := t.newClient
	if newClient == nil {
		newClient = NewHTTPClient
	}
	httpClient := newClient(endpoint, timeout)

	resp, err := httpClient.Do(req)
	latencyMs := time.Since(startTime).Milliseconds()

	if err != nil {
		apiErr := classifyTransportError(ctx, err)
		logrus.Debugf("Connection test to %s failed: %v", endpoint.BaseURL, apiErr)
		return typ.ConnectionResult{
			Success:   false,
			Message:   apiErr.Message,
			ErrorKind: string(apiErr.Kind),
			LatencyMs: latencyMs,
		}
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return typ.ConnectionResult{
			Success:    true,
			Message:    "endpoint is reachable",
			StatusCode: resp.StatusCode,
			LatencyMs:  latencyMs,
		}
	}

	return typ.ConnectionResult{
		Success:    false,
		Message:    fmt.Sprintf("endpoint rejected request with status %d", resp.StatusCode),
		StatusCode: resp.StatusCode,
		ErrorKind:  string(KindRejected),
		LatencyMs:  latencyMs,
	}
}
