package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/auth"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	repos := repomanager.NewMemoryRepositoryManager()
	s := newAuthService(t, repos)

	sess, err := s.Register(ctx, RegisterInput{Email: "  Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", sess.User.Email)
	assert.Equal(t, models.UserTypeVolunteer, sess.User.UserType)
	assert.False(t, sess.User.ProfileCompleted)
	assert.True(t, strings.HasPrefix(sess.User.PasswordHash, "$argon2id$"))

	userID, err := s.tokens.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, userID)
}

func TestRegister_Validation(t *testing.T) {
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing email", RegisterInput{Password: "secret1"}, "Please provide email and password"},
		{"missing password", RegisterInput{Email: "a@b.io"}, "Please provide email and password"},
		{"malformed email", RegisterInput{Email: "not-an-email", Password: "secret1"}, "Please provide a valid email"},
		{"short password", RegisterInput{Email: "a@b.io", Password: "12345"}, "Password must be at least 6 characters"},
		{"bad user type", RegisterInput{Email: "a@b.io", Password: "secret1", UserType: "admin"}, "userType must be volunteer or organization"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.in)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestRegister_PasswordLengthCountsCharacters(t *testing.T) {
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	// five runes, more than six bytes
	_, err := s.Register(context.Background(), RegisterInput{Email: "u@x.io", Password: "ééééé"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Register(context.Background(), RegisterInput{Email: "u@x.io", Password: "éééééé"})
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	_, err := s.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{Email: "BOB@example.com", Password: "other12"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestRegister_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(ctx, RegisterInput{Email: "race@example.com", Password: "secret1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, dup := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrDuplicateEmail):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestRegister_StoreError(t *testing.T) {
	s := newAuthService(t, &fakeRepos{users: &fakeUsersRepo{createErr: errors.New("db down")}})

	_, err := s.Register(context.Background(), RegisterInput{Email: "a@b.io", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "db down")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())
	at := time.Date(2025, 2, 2, 2, 2, 2, 0, time.UTC)
	s.now = func() time.Time { return at }

	reg, err := s.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, reg.User.LastLogin)

	sess, err := s.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sess.User.ID)
	require.NotNil(t, sess.User.LastLogin)
	assert.True(t, sess.User.LastLogin.Equal(at))

	stored, err := s.CurrentUser(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)

	userID, err := s.tokens.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	_, err := s.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, "alice@example.com", "wrong!!")
	_, unknownEmail := s.Login(ctx, "nobody@example.com", "secret1")

	require.ErrorIs(t, wrongPassword, common.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, common.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	_, err := s.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = s.Login(context.Background(), "a@b.io", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLogin_StoreErrors(t *testing.T) {
	hasher := auth.NewPasswordHasher(fastArgon)
	user := &models.User{ID: "u1", Email: "a@b.io", PasswordHash: hasher.Hash([]byte("secret1"))}

	s := newAuthService(t, &fakeRepos{users: &fakeUsersRepo{findErr: errors.New("db down")}})
	_, err := s.Login(context.Background(), "a@b.io", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)

	s = newAuthService(t, &fakeRepos{users: &fakeUsersRepo{findOut: user, touchErr: errors.New("write failed")}})
	_, err = s.Login(context.Background(), "a@b.io", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")

	broken := &models.User{ID: "u1", PasswordHash: "garbage"}
	s = newAuthService(t, &fakeRepos{users: &fakeUsersRepo{findOut: broken}})
	_, err = s.Login(context.Background(), "a@b.io", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	sess, err := s.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	other := auth.NewTokenService("other-secret", time.Hour)
	forged, err := other.Issue(sess.User.ID)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, err := auth.NewTokenService("test-secret", -time.Minute).Issue(sess.User.ID)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	orphan, err := s.tokens.Issue("deleted-user")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateProfile_CompletesAndStaysCompleted(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager())

	sess, err := s.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := s.UpdateProfile(ctx, sess.User.ID, models.Profile{
		FirstName: strPtr("  Alice "),
		Skills:    []string{" go ", "", "sql"},
	})
	require.NoError(t, err)
	assert.True(t, u.ProfileCompleted)
	assert.Equal(t, "Alice", *u.FirstName)
	assert.Equal(t, []string{"go", "sql"}, u.Skills)

	u, err = s.UpdateProfile(ctx, sess.User.ID, models.Profile{Bio: strPtr("hi")})
	require.NoError(t, err)
	assert.True(t, u.ProfileCompleted)
	assert.Equal(t, "Alice", *u.FirstName)

	_, err = s.UpdateProfile(ctx, "ghost", models.Profile{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateProfile_StoreError(t *testing.T) {
	s := newAuthService(t, &fakeRepos{users: &fakeUsersRepo{updateErr: errors.New("db down")}})

	_, err := s.UpdateProfile(context.Background(), "u1", models.Profile{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
