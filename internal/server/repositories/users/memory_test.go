package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{Email: "Alice@X.io", PasswordHash: "h", UserType: models.UserTypeVolunteer})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := r.FindByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "Alice@X.io", byEmail.Email)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h", byID.PasswordHash)

	_, err = r.FindByEmail(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{Email: "bob@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{Email: "BOB@X.IO", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestMemoryRepository_ConcurrentDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Create(ctx, &models.User{Email: "Race@x.io", PasswordHash: "h"})
		}(i)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
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

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{Email: "c@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Email = "mutated@x.io"
	got.Skills = []string{"x"}

	again, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "c@x.io", again.Email)
	assert.Nil(t, again.Skills)
}

func TestMemoryRepository_UpdateProfileMerges(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{Email: "d@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := r.UpdateProfile(ctx, u.ID, models.Profile{FirstName: strPtr("Dana"), Skills: []string{"go"}})
	require.NoError(t, err)
	assert.True(t, got.ProfileCompleted)

	got, err = r.UpdateProfile(ctx, u.ID, models.Profile{City: strPtr("Riga")})
	require.NoError(t, err)
	assert.True(t, got.ProfileCompleted)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Dana", *got.FirstName)
	assert.Equal(t, []string{"go"}, got.Skills)
	assert.Equal(t, "Riga", *got.City)

	_, err = r.UpdateProfile(ctx, "ghost", models.Profile{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_TouchAndAvatar(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{Email: "e@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.TouchLastLogin(ctx, u.ID, at))
	require.NoError(t, r.SetAvatarKey(ctx, u.ID, "avatars/k"))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
	require.NotNil(t, got.AvatarKey)
	assert.Equal(t, "avatars/k", *got.AvatarKey)

	assert.ErrorIs(t, r.TouchLastLogin(ctx, "ghost", at), common.ErrorNotFound)
	assert.ErrorIs(t, r.SetAvatarKey(ctx, "ghost", "k"), common.ErrorNotFound)
}

func TestMemoryRepository_RejectsEmptyPasswordHash(t *testing.T) {
	r := NewMemoryRepository()

	_, err := r.Create(context.Background(), &models.User{Email: "nohash@x.io", UserType: models.UserTypeVolunteer})
	require.ErrorIs(t, err, common.ErrEmptyPassword)

	_, err = r.FindByEmail(context.Background(), "nohash@x.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
