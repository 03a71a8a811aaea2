package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zeuyel/MathImage/internal/client"
	"github.com/Zeuyel/MathImage/internal/data/db"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// HandleListModels fetches the models advertised by the endpoint
func (s *Server) HandleListModels(c *gin.Context) {
	var req ListModelsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ListModelsResponse{
			Success: false,
			Error: &ErrorDetail{
				Message: "Invalid request body: " + err.Error(),
				Type:    "invalid_request",
			},
		})
		return
	}

	endpoint := s.endpointForRequest(req.BaseURL, req.APIKey)
	if req.NoKeyRequired {
		endpoint.NoKeyRequired = true
	}

	start := time.Now()
	models, err := s.lister.ListModels(c.Request.Context(), endpoint)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		kind := string(client.KindOf(err))
		status := client.StatusOf(err)
		s.recordProbe(db.OpListModels, endpoint.BaseURL, typ.ConnectionResult{
			Success:    false,
			Message:    err.Error(),
			StatusCode: status,
			ErrorKind:  kind,
			LatencyMs:  latency,
		}, 0)
		c.JSON(http.StatusOK, ListModelsResponse{
			Success: false,
			Error: &ErrorDetail{
				Message: err.Error(),
				Type:    kind,
				Code:    status,
			},
		})
		return
	}

	s.recordProbe(db.OpListModels, endpoint.BaseURL, typ.ConnectionResult{
		Success:   true,
		Message:   "Models fetched",
		LatencyMs: latency,
	}, len(models))

	c.JSON(http.StatusOK, ListModelsResponse{
		Success: true,
		Data:    models,
	})
}
