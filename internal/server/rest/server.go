// Package rest exposes the ConnectLink API over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/logging"
	"github.com/dmitrijs2005/connectlink/internal/server/config"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

type authService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, p models.Profile) (*models.User, error)
}

type opportunityService interface {
	List(ctx context.Context, limit int) ([]models.Opportunity, error)
	View(ctx context.Context, id string) (*models.Opportunity, error)
	Create(ctx context.Context, user *models.User, in services.CreateOpportunityInput) (*models.Opportunity, error)
	Apply(ctx context.Context, user *models.User, opportunityID, message string) (*models.Application, error)
}

type dashboardService interface {
	Get(ctx context.Context, user *models.User) (*services.Dashboard, error)
}

type avatarService interface {
	CreateUpload(ctx context.Context, userID string) (*services.AvatarUpload, error)
	DownloadURL(ctx context.Context, user *models.User) (string, error)
}

type rateLimiter interface {
	Allow(ctx context.Context, subject string) (bool, time.Duration, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer delegates to. Limiter may be
// nil, which disables auth rate limiting.
type Deps struct {
	Auth          authService
	Opportunities opportunityService
	Dashboard     dashboardService
	Avatars       avatarService
	Limiter       rateLimiter
	Store         pinger
}

type Server struct {
	address   string
	prefix    string
	clientURL string
	bodyLimit int64
	timeout   time.Duration

	auth          authService
	opportunities opportunityService
	dashboard     dashboardService
	avatars       avatarService
	limiter       rateLimiter
	store         pinger

	logger   logging.Logger
	registry *prometheus.Registry
	metrics  *metrics
	router   *gin.Engine
	now      func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, deps Deps) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()

	s := &Server{
		address:       cfg.HTTPAddr,
		prefix:        cfg.APIPrefix,
		clientURL:     cfg.ClientURL,
		bodyLimit:     cfg.BodyLimitBytes,
		timeout:       cfg.RequestTimeout,
		auth:          deps.Auth,
		opportunities: deps.Opportunities,
		dashboard:     deps.Dashboard,
		avatars:       deps.Avatars,
		limiter:       deps.Limiter,
		store:         deps.Store,
		logger:        l.With("module", "rest_server"),
		registry:      registry,
		metrics:       newMetrics(registry),
		router:        gin.New(),
		now:           time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
