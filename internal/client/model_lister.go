package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/Zeuyel/MathImage/internal/constant"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// maxModelsResponseSize bounds how much of a models response is read
const maxModelsResponseSize = 4 << 20

// ModelLister defines the interface for fetching model lists from an API
type ModelLister interface {
	// ListModels returns the models available at the endpoint, in the order
	// the API delivered them. Failures are returned as *APIError.
	ListModels(ctx context.Context, endpoint typ.Endpoint) ([]typ.Model, error)
}

// OpenAIModelLister lists models from an OpenAI-compatible API by calling
// GET {base}/models and parsing the standard {"data":[{"id":...}]} shape
type OpenAIModelLister struct {
	// Timeout bounds the whole round trip. Zero means the default.
	Timeout time.Duration

	// newClient is replaceable for tests
	newClient func(typ.Endpoint, time.Duration) *http.Client
}

// NewOpenAIModelLister creates a lister with the default timeout
func NewOpenAIModelLister() *OpenAIModelLister {
	return &OpenAIModelLister{
		Timeout:   constant.ModelFetchTimeout * time.Second,
		newClient: NewHTTPClient,
	}
}

// ListModels fetches the model list. Parameters are validated before any
// request is sent; the HTTP status is inspected explicitly so no non-2xx
// response is ever mistaken for success.
func (l *OpenAIModelLister) ListModels(ctx context.Context, endpoint typ.Endpoint) ([]typ.Model, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, invalidConfigError(err)
	}
	if endpoint.APIKey == "" && endpoint.RequiresKey() {
		return nil, &APIError{
			Kind:    KindInvalidConfiguration,
			Message: "API key is required for this endpoint",
		}
	}

	modelsURL := strings.TrimSuffix(endpoint.BaseURL, "/") + "/models"

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = constant.ModelFetchTimeout * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL, nil)
	if err != nil {
		return nil, invalidConfigError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if endpoint.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+endpoint.APIKey)
	}

	newClient := l.newClient
	if newClient == nil {
		newClient = NewHTTPClient
	}
	httpClient := newClient(endpoint, timeout)

	resp, err := httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransportError(ctx, err)
		logrus.Debugf("Model list request to %s failed: %v", modelsURL, apiErr)
		return nil, apiErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxModelsResponseSize))
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatusError(resp.StatusCode, string(body))
	}

	return parseModelsResponse(body)
}

// parseModelsResponse extracts models from an OpenAI-compatible response
// body, preserving the delivered order. No deduplication or reordering.
func parseModelsResponse(body []byte) ([]typ.Model, error) {
	if !gjson.ValidBytes(body) {
		return nil, &APIError{Kind: KindMalformedResponse, Message: "response body is not valid JSON"}
	}

	parsed := gjson.ParseBytes(body)

	// Some providers report errors inside a 2xx body
	if errMsg := parsed.Get("error.message"); errMsg.Exists() {
		return nil, &APIError{
			Kind:    KindMalformedResponse,
			Message: "API error: " + errMsg.String(),
		}
	}

	data := parsed.Get("data")
	if !data.Exists() || !data.IsArray() {
		return nil, &APIError{Kind: KindMalformedResponse, Message: `response is missing the "data" array`}
	}

	var models []typ.Model
	data.ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("id").String()
		if id == "" {
			return true
		}
		models = append(models, typ.Model{
			ID:          id,
			Object:      entry.Get("object").String(),
			DisplayName: entry.Get("display_name").String(),
		})
		return true
	})

	return models, nil
}
