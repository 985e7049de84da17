package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Client-facing messages. Unknown email and wrong password share
// msgInvalidCredentials.
const (
	msgInternal           = "Internal server error"
	msgNoToken            = "Not authorized, no token provided"
	msgTokenFailed        = "Not authorized, token failed"
	msgUserNotFound       = "User not found"
	msgInvalidCredentials = "Invalid email or password"
	msgDuplicateEmail     = "User already exists with this email"
	msgRateLimited        = "Too many attempts, please try again later"
	msgOrgOnly            = "Only organizations can create opportunities"
	msgVolunteerOnly      = "Only volunteers can apply to opportunities"
	msgOpportunityMissing = "Opportunity not found"
	msgAlreadyApplied     = "You have already applied to this opportunity"
	msgOpportunityClosed  = "Opportunity is not open for applications"
	msgAvatarsDisabled    = "Avatar storage is not configured"
	msgAvatarMissing      = "No avatar uploaded"
	msgBodyTooLarge       = "Request body too large"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sessionResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type userResponse struct {
	Success bool              `json:"success"`
	User    models.PublicUser `json:"user"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Success: false, Message: msg})
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Message: msg})
}

// fail maps a service error onto the error envelope. Anything unrecognised
// is logged and reported as 500 without detail.
func (s *Server) fail(c *gin.Context, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, common.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, msgDuplicateEmail)
	case errors.Is(err, common.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, msgTokenFailed)
	case errors.Is(err, common.ErrForbidden):
		respondError(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrAlreadyApplied):
		respondError(c, http.StatusConflict, msgAlreadyApplied)
	case errors.Is(err, common.ErrOpportunityClosed):
		respondError(c, http.StatusConflict, msgOpportunityClosed)
	case errors.Is(err, common.ErrStorageDisabled):
		respondError(c, http.StatusServiceUnavailable, msgAvatarsDisabled)
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.Request.URL.Path)
		respondError(c, http.StatusInternalServerError, msgInternal)
	}
}
