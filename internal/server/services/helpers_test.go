package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/server/auth"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/applications"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/opportunities"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/users"
)

var fastArgon = auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newAuthService(t *testing.T, repos repomanager.RepositoryManager) *AuthService {
	t.Helper()
	return NewAuthService(repos, auth.NewTokenService("test-secret", time.Hour), auth.NewPasswordHasher(fastArgon))
}

// fakeRepos overrides individual repositories of an otherwise nil manager.
type fakeRepos struct {
	repomanager.RepositoryManager
	users         users.Repository
	opportunities opportunities.Repository
	applications  applications.Repository
}

func (f *fakeRepos) Users() users.Repository                 { return f.users }
func (f *fakeRepos) Opportunities() opportunities.Repository { return f.opportunities }
func (f *fakeRepos) Applications() applications.Repository   { return f.applications }

func (f *fakeRepos) WithinTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	return fn(ctx, f)
}

type fakeUsersRepo struct {
	users.Repository
	createErr error
	findOut   *models.User
	findErr   error
	touchErr  error
	updateErr error
	avatarErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-fake"
	return u, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.findOut, f.findErr
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.findOut, f.findErr
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, p models.Profile) (*models.User, error) {
	return f.findOut, f.updateErr
}

func (f *fakeUsersRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return f.touchErr
}

func (f *fakeUsersRepo) SetAvatarKey(ctx context.Context, id, key string) error {
	return f.avatarErr
}

func strPtr(s string) *string { return &s }
