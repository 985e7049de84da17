// Package services holds the application logic between the REST handlers
// and the repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/auth"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// Session is the result of a successful register or login.
type Session struct {
	Token string
	User  *models.User
}

type RegisterInput struct {
	Email    string
	Password string
	UserType models.UserType
}

// AuthService is the auth gateway: registration, login, and resolving a
// token or id to a user.
type AuthService struct {
	repos    repomanager.RepositoryManager
	tokens   *auth.TokenService
	hasher   *auth.PasswordHasher
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthService(repos repomanager.RepositoryManager, tokens *auth.TokenService, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{
		repos:    repos,
		tokens:   tokens,
		hasher:   hasher,
		validate: validator.New(),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, common.NewValidationError("Please provide email and password")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, common.NewValidationError("Please provide a valid email")
	}
	if utf8.RuneCountInString(in.Password) < common.MinPasswordLength {
		return nil, common.NewValidationError(fmt.Sprintf("Password must be at least %d characters", common.MinPasswordLength))
	}

	userType := in.UserType
	if userType == "" {
		userType = models.UserTypeVolunteer
	}
	if !userType.Valid() {
		return nil, common.NewValidationError("userType must be volunteer or organization")
	}

	user, err := s.repos.Users().Create(ctx, &models.User{
		Email:        email,
		PasswordHash: s.hasher.Hash([]byte(in.Password)),
		UserType:     userType,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.newSession(user)
}

// Login checks credentials and records the login time. Unknown email and
// wrong password both yield common.ErrInvalidCredentials after the same
// amount of hashing work.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Please provide email and password")
	}

	repo := s.repos.Users()

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy([]byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, []byte(password))
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("error updating last login: %w", err)
	}
	user.LastLogin = &now

	return s.newSession(user)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user. Token failures are
// returned as common.ErrInvalidToken or common.ErrTokenExpired; a valid
// token whose user no longer exists yields common.ErrorNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.CurrentUser(ctx, userID)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and marks the profile
// completed. It is the only path that sets profileCompleted.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, p models.Profile) (*models.User, error) {
	user, err := s.repos.Users().UpdateProfile(ctx, userID, normalizeProfile(p))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

func normalizeProfile(p models.Profile) models.Profile {
	for _, f := range []**string{&p.FirstName, &p.LastName, &p.Location, &p.City,
		&p.Specialization, &p.Availability, &p.Bio} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	p.Skills = normalizeList(p.Skills)
	p.Interests = normalizeList(p.Interests)
	return p
}

// normalizeList trims entries and drops blanks; a nil list stays nil so it
// reads as "unchanged".
func normalizeList(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
