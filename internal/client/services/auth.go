// Package services contains application services for the ConnectLink
// client: session lifecycle against the API plus the local session cache.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/connectlink/internal/client/client"
	"github.com/dmitrijs2005/connectlink/internal/client/models"
)

// ErrNotLoggedIn is returned when no usable session exists.
var ErrNotLoggedIn = errors.New("not logged in")

type sessionStore interface {
	Save(ctx context.Context, s *models.Session) error
	SaveUser(ctx context.Context, u *models.User) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// AuthService defines the session operations the CLI needs.
//
// Contract:
//   - Register / Login: call the API and persist the returned session.
//   - Restore: revalidate the stored token with GET /auth/me. A 401 drops
//     the session; an unreachable server falls back to the cached user.
//   - UpdateProfile: send the changed fields and cache the new user.
//   - Logout: forget the local session. Tokens are stateless, so the
//     server is not contacted.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, userType string) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Restore(ctx context.Context) (*models.Session, bool, error)
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	UploadAvatar(ctx context.Context, contentType string, data []byte) (*models.AvatarUpload, error)
	Opportunities(ctx context.Context, limit int) ([]models.Opportunity, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  sessionStore
}

func NewAuthService(c client.Client, store sessionStore) AuthService {
	return &authService{client: c, store: store}
}

func (a *authService) Register(ctx context.Context, email string, password []byte, userType string) (*models.Session, error) {
	s, err := a.client.Register(ctx, email, password, userType)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

// Restore returns the stored session and whether it was confirmed by the
// server.
func (a *authService) Restore(ctx context.Context) (*models.Session, bool, error) {
	s, err := a.store.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if s == nil {
		return nil, false, ErrNotLoggedIn
	}

	u, err := a.client.Me(ctx, s.Token)
	switch {
	case err == nil:
		s.User = *u
		if err := a.store.SaveUser(ctx, u); err != nil {
			return nil, false, fmt.Errorf("session saving error: %w", err)
		}
		return s, true, nil
	case errors.Is(err, client.ErrUnauthorized):
		if err := a.store.Clear(ctx); err != nil {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("%w: session expired", ErrNotLoggedIn)
	case errors.Is(err, client.ErrUnavailable):
		return s, false, nil
	default:
		return nil, false, err
	}
}

func (a *authService) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	s, online, err := a.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if !online {
		return nil, client.ErrUnavailable
	}

	u, err := a.client.UpdateProfile(ctx, s.Token, p)
	if err != nil {
		return nil, err
	}
	if err := a.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return u, nil
}

func (a *authService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	s, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotLoggedIn
	}
	return a.client.Dashboard(ctx, s.Token)
}

// UploadAvatar asks the API for a presigned URL and uploads data to it.
func (a *authService) UploadAvatar(ctx context.Context, contentType string, data []byte) (*models.AvatarUpload, error) {
	s, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotLoggedIn
	}

	up, err := a.client.CreateAvatarUpload(ctx, s.Token)
	if err != nil {
		return nil, err
	}
	if err := a.client.UploadObject(ctx, up.UploadURL, contentType, data); err != nil {
		return nil, err
	}
	return up, nil
}

func (a *authService) Opportunities(ctx context.Context, limit int) ([]models.Opportunity, error) {
	return a.client.Opportunities(ctx, limit)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// NeedsOnboarding is the profile completion gate: a user who has never
// saved a profile is sent to onboarding instead of the dashboard.
func NeedsOnboarding(u *models.User) bool {
	return u != nil && !u.ProfileCompleted
}
