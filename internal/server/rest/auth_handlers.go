package rest

import (
	"net/http"

	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	sess, err := s.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		UserType: models.UserType(req.UserType),
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", sess.User.ID, "user_type", sess.User.UserType)
	c.JSON(http.StatusCreated, sessionResponse{Success: true, Token: sess.Token, User: sess.User.Public()})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	sess, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Success: true, Token: sess.Token, User: sess.User.Public()})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, userResponse{Success: true, User: currentUser(c).Public()})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bind(c, &req) {
		return
	}

	user, err := s.auth.UpdateProfile(c.Request.Context(), currentUser(c).ID, models.Profile{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Location:       req.Location,
		City:           req.City,
		Skills:         req.Skills,
		Interests:      req.Interests,
		Specialization: req.Specialization,
		Availability:   req.Availability,
		Bio:            req.Bio,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{Success: true, User: user.Public()})
}
