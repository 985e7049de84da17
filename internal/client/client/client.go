// Package client talks to the ConnectLink REST API.
package client

import (
	"context"

	"github.com/dmitrijs2005/connectlink/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, email string, password []byte, userType string) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Me(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, p models.ProfileUpdate) (*models.User, error)
	Dashboard(ctx context.Context, token string) (*models.Dashboard, error)
	CreateAvatarUpload(ctx context.Context, token string) (*models.AvatarUpload, error)
	UploadObject(ctx context.Context, url, contentType string, body []byte) error
	Opportunities(ctx context.Context, limit int) ([]models.Opportunity, error)
	Ping(ctx context.Context) error
}
