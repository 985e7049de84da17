package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/services"
	"github.com/gin-gonic/gin"
)

type opportunityListResponse struct {
	Success       bool                 `json:"success"`
	Count         int                  `json:"count"`
	Opportunities []models.Opportunity `json:"opportunities"`
}

type opportunityResponse struct {
	Success     bool                `json:"success"`
	Opportunity *models.Opportunity `json:"opportunity"`
}

type applicationResponse struct {
	Success     bool                `json:"success"`
	Application *models.Application `json:"application"`
}

func (s *Server) handleListOpportunities(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
		// zero means "default" to the service; an explicit 0 is out of range
		if limit == 0 {
			limit = -1
		}
	}

	list, err := s.opportunities.List(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, opportunityListResponse{Success: true, Count: len(list), Opportunities: list})
}

func (s *Server) handleGetOpportunity(c *gin.Context) {
	o, err := s.opportunities.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusNotFound, msgOpportunityMissing)
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, opportunityResponse{Success: true, Opportunity: o})
}

func (s *Server) handleCreateOpportunity(c *gin.Context) {
	var req createOpportunityRequest
	if !bind(c, &req) {
		return
	}

	o, err := s.opportunities.Create(c.Request.Context(), currentUser(c), services.CreateOpportunityInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		SkillsRequired: req.SkillsRequired,
		Commitment:     req.Commitment,
		Status:         models.OpportunityStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, common.ErrForbidden) {
			respondError(c, http.StatusForbidden, msgOrgOnly)
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, opportunityResponse{Success: true, Opportunity: o})
}

func (s *Server) handleApply(c *gin.Context) {
	var req applyRequest
	if !bind(c, &req) {
		return
	}

	a, err := s.opportunities.Apply(c.Request.Context(), currentUser(c), c.Param("id"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrForbidden):
			respondError(c, http.StatusForbidden, msgVolunteerOnly)
		case errors.Is(err, common.ErrorNotFound):
			respondError(c, http.StatusNotFound, msgOpportunityMissing)
		default:
			s.fail(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, applicationResponse{Success: true, Application: a})
}
