package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	r := s.router

	r.Use(s.recovery())
	r.Use(s.requestID())
	r.Use(s.requestLogger())
	r.Use(s.observe())
	r.Use(s.cors())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group(s.prefix)
	api.Use(s.bodyLimitMiddleware(), s.timeoutMiddleware())

	api.GET("/health", s.handleHealth)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.rateLimit(), s.handleRegister)
	authGroup.POST("/login", s.rateLimit(), s.handleLogin)
	authGroup.GET("/me", s.sessionGuard(), s.handleMe)
	authGroup.PUT("/profile", s.sessionGuard(), s.handleUpdateProfile)

	users := api.Group("/users", s.sessionGuard())
	users.PUT("/profile", s.handleUpdateProfile)
	users.GET("/dashboard", s.handleDashboard)
	users.POST("/profile/avatar", s.handleCreateAvatarUpload)
	users.GET("/profile/avatar", s.handleGetAvatar)

	opps := api.Group("/opportunities")
	opps.GET("", s.handleListOpportunities)
	opps.GET("/:id", s.handleGetOpportunity)
	opps.POST("", s.sessionGuard(), s.handleCreateOpportunity)
	opps.POST("/:id/apply", s.sessionGuard(), s.handleApply)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, fmt.Sprintf("Route not found: %s", c.Request.URL.Path))
	})
}
