package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/logging"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userKey         = "user"
)

// recovery turns a handler panic into the standard 500 envelope.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "error", err, "path", c.Request.URL.Path)
		respondError(c, http.StatusInternalServerError, msgInternal)
	})
}

// requestID propagates an incoming X-Request-ID or assigns a new one.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// requestLogger logs HTTP request/response metadata.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"client_ip", c.ClientIP(),
			"latency", time.Since(start).String(),
		}
		if u := currentUser(c); u != nil {
			args = append(args, "user_id", u.ID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(c.Request.Context(), "http request", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(c.Request.Context(), "http request", args...)
		default:
			s.logger.Info(c.Request.Context(), "http request", args...)
		}
	}
}

// observe records request count and latency per route template.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) cors() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{s.clientURL}
	cfg.AllowCredentials = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, common.AuthorizationHeaderName, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	if s.clientURL == "" || s.clientURL == "*" {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

func (s *Server) bodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.bodyLimit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.bodyLimit)
		}
		c.Next()
	}
}

// timeoutMiddleware bounds the request context; handlers and repositories
// observe the deadline through ctx.
func (s *Server) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Any other shape counts as no token.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// sessionGuard resolves the bearer token to a user and stores it on the
// context. All the decisions live in the auth service.
func (s *Server) sessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if token == "" {
			abortError(c, http.StatusUnauthorized, msgNoToken)
			return
		}

		user, err := s.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
				abortError(c, http.StatusUnauthorized, msgTokenFailed)
			case errors.Is(err, common.ErrorNotFound):
				abortError(c, http.StatusUnauthorized, msgUserNotFound)
			default:
				s.logger.Error(c.Request.Context(), "session lookup failed", "error", err)
				abortError(c, http.StatusInternalServerError, msgInternal)
			}
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// rateLimit throttles by client IP. Limiter failures let the request
// through.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		ok, wait, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			s.metrics.rateLimited.WithLabelValues(c.FullPath()).Inc()
			if wait > 0 {
				c.Header("Retry-After", strconv.Itoa(int((wait+time.Second-1)/time.Second)))
			}
			abortError(c, http.StatusTooManyRequests, msgRateLimited)
			return
		}
		c.Next()
	}
}
