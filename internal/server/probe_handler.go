package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Zeuyel/MathImage/internal/data/db"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// endpointForRequest resolves the endpoint to probe: stored settings with
// optional per-request overrides applied on top.
func (s *Server) endpointForRequest(baseURL, apiKey string) typ.Endpoint {
	endpoint := s.store.Endpoint()
	if baseURL != "" {
		endpoint.BaseURL = baseURL
	}
	if apiKey != "" {
		endpoint.APIKey = apiKey
	}
	return endpoint
}

// HandleProbe runs a single connection test against the endpoint
func (s *Server) HandleProbe(c *gin.Context) {
	var req ProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ProbeResponse{
			Success: false,
			Error: &ErrorDetail{
				Message: "Invalid request body: " + err.Error(),
				Type:    "invalid_request",
			},
		})
		return
	}

	endpoint := s.endpointForRequest(req.BaseURL, req.APIKey)
	result := s.tester.TestConnection(c.Request.Context(), endpoint)

	s.recordProbe(db.OpConnectionTest, endpoint.BaseURL, result, 0)

	c.JSON(http.StatusOK, ProbeResponse{
		Success: result.Success,
		Data:    &result,
	})
}

// recordProbe persists a probe outcome, failures are logged and ignored
func (s *Server) recordProbe(operation, baseURL string, result typ.ConnectionResult, modelsCount int) {
	if s.history == nil {
		return
	}
	record := &db.ProbeRecord{
		Operation:   operation,
		BaseURL:     baseURL,
		Success:     result.Success,
		StatusCode:  result.StatusCode,
		ErrorKind:   result.ErrorKind,
		Message:     result.Message,
		LatencyMs:   result.LatencyMs,
		ModelsCount: modelsCount,
	}
	if err := s.history.Record(record); err != nil {
		logrus.Warnf("Failed to record probe history: %v", err)
	}
}
