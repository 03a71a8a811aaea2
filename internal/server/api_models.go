package server

import (
	"github.com/Zeuyel/MathImage/internal/data/db"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// =============================================
// Health Check Models
// =============================================

// HealthCheckResponse represents the health check response
type HealthCheckResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"mathimage"`
	Version string `json:"version,omitempty"`
}

// =============================================
// Error Models
// =============================================

// ErrorDetail carries a machine-readable error for the shell
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code,omitempty"`
}

// =============================================
// Settings Models
// =============================================

// SettingsResponse returns the current settings with the credential masked
type SettingsResponse struct {
	Success bool         `json:"success"`
	Data    typ.Settings `json:"data"`
}

// UpdateSettingsRequest updates only the fields that are present
type UpdateSettingsRequest struct {
	APIBaseURL   *string `json:"api_base_url,omitempty"`
	APIKey       *string `json:"api_key,omitempty"`
	Model        *string `json:"model,omitempty"`
	Prompt       *string `json:"prompt,omitempty"`
	Hotkey       *string `json:"hotkey,omitempty"`
	SoundEnabled *bool   `json:"sound_enabled,omitempty"`
	ProxyURL     *string `json:"proxy_url,omitempty"`
	Timeout      *int64  `json:"timeout,omitempty"`
}

// UpdateSettingsResponse confirms a settings update
type UpdateSettingsResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    typ.Settings `json:"data"`
}

// =============================================
// Probe (Connection Test) Models
// =============================================

// ProbeRequest optionally overrides the stored endpoint for one test.
// Empty fields fall back to the stored settings.
type ProbeRequest struct {
	BaseURL string `json:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

// ProbeResponse wraps a connection test result
type ProbeResponse struct {
	Success bool                  `json:"success"`
	Data    *typ.ConnectionResult `json:"data,omitempty"`
	Error   *ErrorDetail          `json:"error,omitempty"`
}

// =============================================
// Model Listing Models
// =============================================

// ListModelsRequest optionally overrides the stored endpoint. NoKeyRequired
// lets the shell query keyless local servers such as Ollama.
type ListModelsRequest struct {
	BaseURL       string `json:"base_url,omitempty"`
	APIKey        string `json:"api_key,omitempty"`
	NoKeyRequired bool   `json:"no_key_required,omitempty"`
}

// ListModelsResponse wraps a model listing result
type ListModelsResponse struct {
	Success bool         `json:"success"`
	Data    []typ.Model  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// =============================================
// History Models
// =============================================

// HistoryResponse returns recent probe outcomes, newest first
type HistoryResponse struct {
	Success bool             `json:"success"`
	Data    []db.ProbeRecord `json:"data"`
}
