package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zeuyel/MathImage/internal/typ"
)

// TestOpenAIModelLister_OrderPreserved tests that models come back in the
// exact order the API delivered them
func TestOpenAIModelLister_OrderPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("request path = %q, want /v1/models", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"c-model","object":"model"},
			{"id":"a-model","object":"model"},
			{"id":"b-model","object":"model"}
		]}`))
	}))
	defer srv.Close()

	lister := NewOpenAIModelLister()
	models, err := lister.ListModels(context.Background(), typ.Endpoint{
		BaseURL: srv.URL + "/v1",
		APIKey:  "sk-test",
	})
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	want := []string{"c-model", "a-model", "b-model"}
	if len(models) != len(want) {
		t.Fatalf("got %d models, want %d", len(models), len(want))
	}
	for i, id := range want {
		if models[i].ID != id {
			t.Errorf("models[%d].ID = %q, want %q", i, models[i].ID, id)
		}
	}
}

// TestOpenAIModelLister_StatusClassification tests the mapping from HTTP
// status codes to error kinds
func TestOpenAIModelLister_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind ErrorKind
	}{
		{name: "401 is an authentication failure", status: http.StatusUnauthorized, wantKind: KindAuthentication},
		{name: "403 is an authentication failure", status: http.StatusForbidden, wantKind: KindAuthentication},
		{name: "404 means the endpoint path is wrong", status: http.StatusNotFound, wantKind: KindEndpointNotFound},
		{name: "500 is a server error", status: http.StatusInternalServerError, wantKind: KindServer},
		{name: "503 is a server error", status: http.StatusServiceUnavailable, wantKind: KindServer},
		{name: "429 is a request error", status: http.StatusTooManyRequests, wantKind: KindRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer srv.Close()

			lister := NewOpenAIModelLister()
			_, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL, APIKey: "sk-test"})
			if err == nil {
				t.Fatal("ListModels() succeeded, want error")
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("KindOf() = %q, want %q", KindOf(err), tt.wantKind)
			}
			if StatusOf(err) != tt.status {
				t.Errorf("StatusOf() = %d, want %d", StatusOf(err), tt.status)
			}
		})
	}
}

// TestOpenAIModelLister_MalformedResponse tests that 2xx responses with
// unusable bodies are rejected, never silently treated as empty lists
func TestOpenAIModelLister_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON", body: `<html>gateway error</html>`},
		{name: "missing data field", body: `{"object":"list"}`},
		{name: "data is not an array", body: `{"data":{"id":"x"}}`},
		{name: "error inside 2xx body", body: `{"error":{"message":"quota exceeded"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			lister := NewOpenAIModelLister()
			_, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL, APIKey: "sk-test"})
			if err == nil {
				t.Fatal("ListModels() succeeded, want malformed response error")
			}
			if KindOf(err) != KindMalformedResponse {
				t.Errorf("KindOf() = %q, want %q", KindOf(err), KindMalformedResponse)
			}
		})
	}
}

// TestOpenAIModelLister_EmptyList tests that a valid empty data array is a
// successful, empty result
func TestOpenAIModelLister_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	lister := NewOpenAIModelLister()
	models, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 0 {
		t.Errorf("got %d models, want 0", len(models))
	}
}

// TestOpenAIModelLister_SkipsEntriesWithoutID tests tolerance for partial
// entries in the data array
func TestOpenAIModelLister_SkipsEntriesWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"keep"},{"object":"model"},{"id":"also-keep"}]}`))
	}))
	defer srv.Close()

	lister := NewOpenAIModelLister()
	models, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0].ID != "keep" || models[1].ID != "also-keep" {
		t.Errorf("models = %+v, want [keep also-keep]", models)
	}
}

// TestOpenAIModelLister_MissingKey tests that a key-requiring endpoint with
// no key fails before any request is sent
func TestOpenAIModelLister_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	lister := NewOpenAIModelLister()

	_, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL})
	if err == nil {
		t.Fatal("ListModels() succeeded without an API key")
	}
	if KindOf(err) != KindInvalidConfiguration {
		t.Errorf("KindOf() = %q, want %q", KindOf(err), KindInvalidConfiguration)
	}
	if called {
		t.Error("request was sent despite missing credential")
	}

	// A local endpoint can opt out of key checking
	models, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL, NoKeyRequired: true})
	if err != nil {
		t.Fatalf("ListModels() error = %v for keyless endpoint", err)
	}
	if len(models) != 0 {
		t.Errorf("got %d models, want 0", len(models))
	}
}

// TestOpenAIModelLister_InvalidBaseURL tests validation before I/O
func TestOpenAIModelLister_InvalidBaseURL(t *testing.T) {
	lister := NewOpenAIModelLister()
	_, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: "not-a-url", APIKey: "sk-test"})
	if err == nil {
		t.Fatal("ListModels() succeeded with a malformed base URL")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Kind != KindInvalidConfiguration {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, KindInvalidConfiguration)
	}
}

// TestOpenAIModelLister_TrailingSlash tests URL joining with a trailing
// slash on the base URL
func TestOpenAIModelLister_TrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	lister := NewOpenAIModelLister()
	_, err := lister.ListModels(context.Background(), typ.Endpoint{BaseURL: srv.URL + "/v1/", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if gotPath != "/v1/models" {
		t.Errorf("request path = %q, want /v1/models", gotPath)
	}
}
