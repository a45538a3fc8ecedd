package services

import (
	"testing"
	"time"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	registered, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Username: "tom",
		Email:    "Tom@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "tom@example.com", registered.User.Email)
	assert.Equal(t, models.RoleTenant, registered.User.Role)
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.RefreshToken)

	claims, err := f.tokens.VerifyAccessToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := f.svc.Auth.Login(f.ctx, LoginInput{Email: "TOM@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "tom@example.com", Password: "wrong-password"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	f.register("tom", models.RoleTenant)

	_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Username: "other", Email: "tom@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "Email")

	_, err = f.svc.Auth.Register(f.ctx, RegisterInput{Username: "tom", Email: "new@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "Username")
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"admin role", RegisterInput{Username: "eve", Email: "eve@example.com", Password: "password123", Role: models.RoleAdmin}},
		{"short password", RegisterInput{Username: "eve", Email: "eve@example.com", Password: "short"}},
		{"bad email", RegisterInput{Username: "eve", Email: "not-an-email", Password: "password123"}},
		{"missing username", RegisterInput{Email: "eve@example.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Auth.Register(f.ctx, tt.input)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "%v", err)
		})
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newFixture(t)

	registered, err := f.svc.Auth.Register(f.ctx, RegisterInput{Username: "tom", Email: "tom@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := f.svc.Auth.Refresh(f.ctx, RefreshInput{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	_, err = f.svc.Auth.Refresh(f.ctx, RefreshInput{RefreshToken: registered.RefreshToken})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "old token is spent")

	_, err = f.svc.Auth.Refresh(f.ctx, RefreshInput{RefreshToken: refreshed.Token})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "access token is not a refresh token")
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newFixture(t)

	registered, err := f.svc.Auth.Register(f.ctx, RegisterInput{Username: "tom", Email: "tom@example.com", Password: "password123"})
	require.NoError(t, err)
	principal := policy.Principal{ID: registered.User.ID, Role: registered.User.Role}

	require.NoError(t, f.svc.Auth.Logout(f.ctx, principal))

	_, err = f.svc.Auth.Refresh(f.ctx, RefreshInput{RefreshToken: registered.RefreshToken})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	profile, err := f.svc.Auth.Profile(f.ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "tom", profile.Username)
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	f.register("tom", models.RoleTenant)

	_, err := f.svc.Auth.RequestPasswordReset(f.ctx, ResetRequestInput{Email: "missing@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	token, err := f.svc.Auth.RequestPasswordReset(f.ctx, ResetRequestInput{Email: "tom@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = f.svc.Auth.ResetPassword(f.ctx, ResetPasswordInput{Token: "bogus", NewPassword: "new-password"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, f.svc.Auth.ResetPassword(f.ctx, ResetPasswordInput{Token: token, NewPassword: "new-password"}))

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "tom@example.com", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "tom@example.com", Password: "new-password"})
	assert.NoError(t, err)

	err = f.svc.Auth.ResetPassword(f.ctx, ResetPasswordInput{Token: token, NewPassword: "another-password"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "token is single use")
}

func TestPasswordResetExpires(t *testing.T) {
	f := newFixture(t)
	f.register("tom", models.RoleTenant)

	token, err := f.svc.Auth.RequestPasswordReset(f.ctx, ResetRequestInput{Email: "tom@example.com"})
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	err = f.svc.Auth.ResetPassword(f.ctx, ResetPasswordInput{Token: token, NewPassword: "new-password"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
