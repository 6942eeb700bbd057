package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

func newAuth(f *fixture) *AuthService {
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	return NewAuthService(f.users, jwt, f.rdb, nil, f.logger)
}

func TestPasswordHashing(t *testing.T) {
	s := &AuthService{}
	u := &entity.User{Username: "susan"}
	require.NoError(t, s.SetPassword(u, "cat"))
	assert.NotEqual(t, "cat", u.PasswordHash)
	assert.True(t, s.CheckPassword(u, "cat"))
	assert.False(t, s.CheckPassword(u, "dog"))
	assert.False(t, s.CheckPassword(&entity.User{}, ""))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	s := newAuth(f)
	ctx := context.Background()

	u, err := s.Register(ctx, " john ", "john@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "john", u.Username)
	assert.NotZero(t, u.ID)

	_, err = s.Register(ctx, "john", "other@example.com", "password1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = s.Register(ctx, "other", "john@example.com", "password1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesSession(t *testing.T) {
	f := newFixture(t)
	s := newAuth(f)
	ctx := context.Background()
	_, err := s.Register(ctx, "john", "john@example.com", "password1")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "john", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, pair, err := s.Login(ctx, "john", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := s.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, claims.SessionID, f.mr.HGet(SessionKey(u.ID), "sid"))
	assert.Equal(t, "john", f.mr.HGet(SessionKey(u.ID), "username"))

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.LastSeen.IsZero())
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newFixture(t)
	s := newAuth(f)
	ctx := context.Background()
	_, err := s.Register(ctx, "john", "john@example.com", "password1")
	require.NoError(t, err)
	u, first, err := s.Login(ctx, "john", "password1")
	require.NoError(t, err)

	second, uid, err := s.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, _, err = s.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.Logout(ctx, u.ID))
	_, _, err = s.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByIDMissing(t *testing.T) {
	f := newFixture(t)
	_, err := newAuth(f).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateUpgradesWeakHash(t *testing.T) {
	f := newFixture(t)
	s := newAuth(f)
	ctx := context.Background()

	weak, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Username: "john", Email: "john@example.com", PasswordHash: string(weak)}
	require.NoError(t, f.users.Create(ctx, u))

	_, err = s.Authenticate(ctx, "john", "password1")
	require.NoError(t, err)

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, string(weak), stored.PasswordHash)
	assert.False(t, helpers.NeedsRehash(stored.PasswordHash))
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "password1"))

	_, err = s.Authenticate(ctx, "john", "password1")
	require.NoError(t, err)
	again, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.PasswordHash, again.PasswordHash)
}
