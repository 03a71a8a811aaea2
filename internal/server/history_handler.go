package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandleHistory returns recent probe outcomes, newest first
func (s *Server) HandleHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	records, err := s.history.Recent(limit)
	if err != nil {
		logrus.Errorf("Failed to load probe history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to load history",
		})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Success: true,
		Data:    records,
	})
}
