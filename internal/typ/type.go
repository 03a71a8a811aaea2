package typ

import (
	"fmt"
	"net/url"
)

// Endpoint represents a remote OpenAI-compatible API endpoint configuration
type Endpoint struct {
	BaseURL       string `json:"base_url"`
	APIKey        string `json:"api_key,omitempty"`
	NoKeyRequired bool   `json:"no_key_required,omitempty"`
	ProxyURL      string `json:"proxy_url,omitempty"` // HTTP or SOCKS proxy URL (e.g. "http://127.0.0.1:7890" or "socks5://127.0.0.1:1080")
	Timeout       int64  `json:"timeout,omitempty"`   // Request timeout in seconds
}

// Validate checks that the endpoint is usable before any network I/O is attempted.
// The base URL must be a syntactically valid absolute http(s) URL.
func (e *Endpoint) Validate() error {
	if e.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", e.BaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base URL %q must be absolute", e.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported base URL scheme %q", u.Scheme)
	}
	return nil
}

// RequiresKey reports whether the endpoint expects a credential on requests
func (e *Endpoint) RequiresKey() bool {
	return !e.NoKeyRequired
}

// Model represents a single model advertised by the API
type Model struct {
	ID          string `json:"id"`
	Object      string `json:"object,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// ConnectionResult is the outcome of a single connection test.
// Produced once per invocation and returned to the caller unchanged.
type ConnectionResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"` // 0 when no response was received
	ErrorKind  string `json:"error_kind,omitempty"`
	LatencyMs  int64  `json:"latency_ms"`
}

// Settings holds the full application settings record persisted on disk.
// APIBaseURL and APIKey form the endpoint configuration used by the
// connection tester and model lister; the remaining fields belong to the
// shell front end.
type Settings struct {
	APIBaseURL   string `json:"api_base_url"`
	APIKey       string `json:"api_key"`
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	Hotkey       string `json:"hotkey"`
	SoundEnabled bool   `json:"sound_enabled"`
	ProxyURL     string `json:"proxy_url,omitempty"`
	Timeout      int64  `json:"timeout,omitempty"` // Request timeout in seconds
}

// Endpoint returns the endpoint configuration portion of the settings
func (s *Settings) Endpoint() Endpoint {
	return Endpoint{
		BaseURL:  s.APIBaseURL,
		APIKey:   s.APIKey,
		ProxyURL: s.ProxyURL,
		Timeout:  s.Timeout,
	}
}
