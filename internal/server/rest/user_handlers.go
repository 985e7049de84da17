package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/services"
	"github.com/gin-gonic/gin"
)

type dashboardResponse struct {
	Success       bool                    `json:"success"`
	User          models.PublicUser       `json:"user"`
	Opportunities []models.Opportunity    `json:"opportunities"`
	Stats         services.DashboardStats `json:"stats"`
}

type avatarUploadResponse struct {
	Success   bool      `json:"success"`
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	d, err := s.dashboard.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Success:       true,
		User:          d.User.Public(),
		Opportunities: d.Opportunities,
		Stats:         d.Stats,
	})
}

func (s *Server) handleCreateAvatarUpload(c *gin.Context) {
	up, err := s.avatars.CreateUpload(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, avatarUploadResponse{
		Success:   true,
		Key:       up.Key,
		UploadURL: up.URL,
		ExpiresAt: up.ExpiresAt,
	})
}

func (s *Server) handleGetAvatar(c *gin.Context) {
	url, err := s.avatars.DownloadURL(c.Request.Context(), currentUser(c))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusNotFound, msgAvatarMissing)
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
