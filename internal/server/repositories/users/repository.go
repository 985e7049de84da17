// Package users is the credential store: account records keyed by id and by
// case-insensitive email.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/server/models"
)

// Repository persists users. Implementations must enforce email uniqueness
// atomically (case-insensitive) and report a collision as
// common.ErrDuplicateEmail. Lookups of unknown users return
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// UpdateProfile merges the non-nil fields of p into the stored profile
	// and marks the profile completed.
	UpdateProfile(ctx context.Context, id string, p models.Profile) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	SetAvatarKey(ctx context.Context, id string, key string) error
}
