package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/connectlink/internal/client/client"
	"github.com/dmitrijs2005/connectlink/internal/client/config"
	"github.com/dmitrijs2005/connectlink/internal/client/models"
	"github.com/dmitrijs2005/connectlink/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	regEmail, regType string
	regPass           []byte
	loginEmail        string
	session           *models.Session
	sessionErr        error

	restored   *models.Session
	online     bool
	restoreErr error

	update    *models.ProfileUpdate
	updated   *models.User
	updateErr error

	dashboard *models.Dashboard
	opps      []models.Opportunity
	limit     int

	avatarType string
	avatarData []byte

	loggedOut bool
}

func (f *fakeAuth) Register(_ context.Context, email string, pw []byte, userType string) (*models.Session, error) {
	f.regEmail, f.regType, f.regPass = email, userType, append([]byte(nil), pw...)
	return f.session, f.sessionErr
}
func (f *fakeAuth) Login(_ context.Context, email string, _ []byte) (*models.Session, error) {
	f.loginEmail = email
	return f.session, f.sessionErr
}
func (f *fakeAuth) Restore(context.Context) (*models.Session, bool, error) {
	return f.restored, f.online, f.restoreErr
}
func (f *fakeAuth) UpdateProfile(_ context.Context, p models.ProfileUpdate) (*models.User, error) {
	f.update = &p
	return f.updated, f.updateErr
}
func (f *fakeAuth) Dashboard(context.Context) (*models.Dashboard, error) { return f.dashboard, nil }
func (f *fakeAuth) UploadAvatar(_ context.Context, ct string, data []byte) (*models.AvatarUpload, error) {
	f.avatarType, f.avatarData = ct, data
	return &models.AvatarUpload{Key: "avatars/u1/k"}, nil
}
func (f *fakeAuth) Opportunities(_ context.Context, limit int) ([]models.Opportunity, error) {
	f.limit = limit
	return f.opps, nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	return nil
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(f services.AuthService, input string) (*App, *bytes.Buffer) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	out := &bytes.Buffer{}
	return &App{
		config: cfg,
		auth:   f,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func TestRegister_IncompleteProfilePointsToOnboarding(t *testing.T) {
	stubPassword(t, "secret1")
	f := &fakeAuth{session: &models.Session{Token: "tok", User: models.User{Email: "alice@example.com", UserType: "volunteer"}}}
	a, out := newTestApp(f, "alice@example.com\n")

	require.NoError(t, a.Run(context.Background(), []string{"register"}))
	assert.Equal(t, "alice@example.com", f.regEmail)
	assert.Equal(t, "secret1", string(f.regPass))
	assert.Contains(t, out.String(), "Registered as alice@example.com (volunteer)")
	assert.Contains(t, out.String(), "Your profile is incomplete")
	assert.Nil(t, f.update)
}

func TestRegister_Organization(t *testing.T) {
	stubPassword(t, "secret1")
	f := &fakeAuth{session: &models.Session{User: models.User{Email: "org@example.com", UserType: "organization"}}}
	a, _ := newTestApp(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"register", "-e", "org@example.com", "--type", "organization"}))
	assert.Equal(t, "organization", f.regType)
}

func TestRegister_Duplicate(t *testing.T) {
	stubPassword(t, "secret1")
	f := &fakeAuth{sessionErr: &client.APIError{Status: http.StatusConflict, Message: "User already exists with this email"}}
	a, out := newTestApp(f, "")

	err := a.Run(context.Background(), []string{"register", "--email", "bob@example.com"})
	require.Error(t, err)
	assert.Equal(t, "User already exists with this email", err.Error())
	assert.Contains(t, out.String(), "User already exists with this email")
}

func TestLogin_CompletedProfileGoesToDashboard(t *testing.T) {
	stubPassword(t, "secret1")
	f := &fakeAuth{session: &models.Session{User: models.User{Email: "alice@example.com", ProfileCompleted: true}}}
	a, out := newTestApp(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"login", "-e", "alice@example.com", "--onboard"}))
	assert.Equal(t, "alice@example.com", f.loginEmail)
	assert.Contains(t, out.String(), "Next: `connectlink dashboard`")
	assert.Nil(t, f.update)
}

func TestLogin_Onboard(t *testing.T) {
	stubPassword(t, "secret1")
	f := &fakeAuth{
		session: &models.Session{User: models.User{Email: "alice@example.com"}},
		updated: &models.User{Email: "alice@example.com", FirstName: "Alice", ProfileCompleted: true},
	}
	// first name, last name skipped, location skipped, city, skills, rest EOF
	a, out := newTestApp(f, "Alice\n\n\nRiga\ngo, sql\n")

	require.NoError(t, a.Run(context.Background(), []string{"login", "-e", "alice@example.com", "--onboard"}))
	require.NotNil(t, f.update)
	assert.Equal(t, "Alice", *f.update.FirstName)
	assert.Nil(t, f.update.LastName)
	assert.Equal(t, "Riga", *f.update.City)
	assert.Equal(t, []string{"go", "sql"}, f.update.Skills)
	assert.Contains(t, out.String(), "Profile saved.")
	assert.Contains(t, out.String(), "Profile:  complete")
}

func TestLogin_OnboardNothingEntered(t *testing.T) {
	stubPassword(t, "secret1")
	f := &fakeAuth{session: &models.Session{User: models.User{Email: "alice@example.com"}}}
	a, out := newTestApp(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"login", "-e", "alice@example.com", "--onboard"}))
	assert.Nil(t, f.update)
	assert.Contains(t, out.String(), "onboarding skipped")
}

func TestProfile_Flags(t *testing.T) {
	f := &fakeAuth{updated: &models.User{Email: "alice@example.com", ProfileCompleted: true}}
	a, _ := newTestApp(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"profile", "--bio", "hi", "--interests", "climate, kids"}))
	require.NotNil(t, f.update)
	assert.Equal(t, "hi", *f.update.Bio)
	assert.Equal(t, []string{"climate", "kids"}, f.update.Interests)
	assert.Nil(t, f.update.FirstName)
}

func TestProfile_NothingToUpdate(t *testing.T) {
	a, _ := newTestApp(&fakeAuth{}, "")
	err := a.Run(context.Background(), []string{"profile"})
	assert.EqualError(t, err, "nothing to update")
}

func TestMe(t *testing.T) {
	f := &fakeAuth{restored: &models.Session{User: models.User{Email: "alice@example.com", FirstName: "Alice"}}}
	a, out := newTestApp(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"me"}))
	assert.Contains(t, out.String(), "Server unavailable, showing cached profile")
	assert.Contains(t, out.String(), "Name:     Alice")
	assert.Contains(t, out.String(), "Profile:  incomplete")

	f.online = true
	out.Reset()
	require.NoError(t, a.Run(context.Background(), []string{"me"}))
	assert.NotContains(t, out.String(), "cached")
}

func TestMe_NotLoggedIn(t *testing.T) {
	a, _ := newTestApp(&fakeAuth{restoreErr: services.ErrNotLoggedIn}, "")
	err := a.Run(context.Background(), []string{"me"})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNotLoggedIn)
	assert.Contains(t, err.Error(), "connectlink login")
}

func TestLogout(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f, "")
	require.NoError(t, a.Run(context.Background(), []string{"logout"}))
	assert.True(t, f.loggedOut)
	assert.Contains(t, out.String(), "Logged out")
}

func TestOpportunitiesAndDashboard(t *testing.T) {
	f := &fakeAuth{
		opps: []models.Opportunity{{ID: "o1", Title: "Beach cleanup", OrganizationName: "Green Earth", SkillsRequired: []string{"lifting"}}},
		dashboard: &models.Dashboard{
			User:  models.User{Email: "alice@example.com"},
			Stats: models.DashboardStats{TotalOpportunities: 4, ActiveApplications: 1},
		},
	}
	a, out := newTestApp(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"opps", "-n", "5"}))
	assert.Equal(t, 5, f.limit)
	assert.Contains(t, out.String(), "- Beach cleanup (Green Earth)")
	assert.Contains(t, out.String(), "skills: lifting")

	out.Reset()
	require.NoError(t, a.Run(context.Background(), []string{"dashboard"}))
	assert.Contains(t, out.String(), "Open opportunities: 4")
	assert.Contains(t, out.String(), "Your applications:  1")
	assert.NotContains(t, out.String(), "Latest:")
}

func TestInit_OpensSessionStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionFile = filepath.Join(t.TempDir(), "s.db")

	a := NewApp(cfg)
	require.NoError(t, a.init(context.Background()))
	assert.NotNil(t, a.auth)
	assert.NoError(t, a.Close())

	cfg.ServerURL = "not a url"
	assert.Error(t, NewApp(cfg).init(context.Background()))
}

func TestAvatar(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f, "")

	path := filepath.Join(t.TempDir(), "me.png")
	png := []byte("\x89PNG\r\n\x1a\n0000")
	require.NoError(t, os.WriteFile(path, png, 0o600))

	require.NoError(t, a.Run(context.Background(), []string{"avatar", path}))
	assert.Equal(t, "image/png", f.avatarType)
	assert.Equal(t, png, f.avatarData)
	assert.Contains(t, out.String(), "Avatar uploaded (avatars/u1/k)")

	assert.Error(t, a.Run(context.Background(), []string{"avatar"}))
	assert.Error(t, a.Run(context.Background(), []string{"avatar", filepath.Join(t.TempDir(), "missing.png")}))
}
