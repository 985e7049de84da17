package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Success:   true,
		Message:   "Server is healthy",
		Database:  "Connected",
		Timestamp: s.now().UTC(),
	}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "health check: store ping failed", "error", err)
		resp.Success = false
		resp.Message = "Server is unhealthy"
		resp.Database = "Disconnected"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
