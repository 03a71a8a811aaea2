package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Zeuyel/MathImage/internal/typ"
)

// maskAPIKey hides the middle of a credential for display
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 6) + key[len(key)-4:]
}

// HandleGetSettings returns the current settings with the credential masked
func (s *Server) HandleGetSettings(c *gin.Context) {
	settings := s.store.Snapshot()
	settings.APIKey = maskAPIKey(settings.APIKey)
	c.JSON(http.StatusOK, SettingsResponse{
		Success: true,
		Data:    settings,
	})
}

// HandleUpdateSettings applies a partial settings update and persists it
func (s *Server) HandleUpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, UpdateSettingsResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	err := s.store.Update(func(settings *typ.Settings) {
		if req.APIBaseURL != nil {
			settings.APIBaseURL = strings.TrimSpace(*req.APIBaseURL)
		}
		if req.APIKey != nil {
			settings.APIKey = strings.TrimSpace(*req.APIKey)
		}
		if req.Model != nil {
			settings.Model = *req.Model
		}
		if req.Prompt != nil {
			settings.Prompt = *req.Prompt
		}
		if req.Hotkey != nil {
			settings.Hotkey = *req.Hotkey
		}
		if req.SoundEnabled != nil {
			settings.SoundEnabled = *req.SoundEnabled
		}
		if req.ProxyURL != nil {
			settings.ProxyURL = strings.TrimSpace(*req.ProxyURL)
		}
		if req.Timeout != nil {
			settings.Timeout = *req.Timeout
		}
	})
	if err != nil {
		logrus.Errorf("Failed to save settings: %v", err)
		c.JSON(http.StatusInternalServerError, UpdateSettingsResponse{
			Success: false,
			Message: "Failed to save settings: " + err.Error(),
		})
		return
	}

	updated := s.store.Snapshot()
	updated.APIKey = maskAPIKey(updated.APIKey)
	c.JSON(http.StatusOK, UpdateSettingsResponse{
		Success: true,
		Message: "Settings updated",
		Data:    updated,
	})
}
