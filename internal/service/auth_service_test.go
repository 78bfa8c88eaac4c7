package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepdelve/campaignhub/internal/repository"
	jwtpkg "deepdelve/campaignhub/pkg/jwt"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := setupTestDB(t)
	manager := jwtpkg.NewManager("test-signing-key", "campaignhub-test", 15*time.Minute, time.Hour)
	return NewAuthService(
		repository.NewPGProfileRepository(db),
		repository.NewMemoryStateStore(),
		manager,
	)
}

func TestRegisterDerivesUsernameFromEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	profile, tokens, err := svc.Register(ctx, "Vex.Delver@example.com", "doorkeeper1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "vexdelver", profile.Username)
	assert.Equal(t, "standard", profile.AccountType)
	assert.Equal(t, "vex.delver@example.com", profile.Email)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "gm@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "gm@example.com", "doorkeeper2", "other", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSuffixesTakenUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, "one@example.com", "doorkeeper1", "Keeper", "")
	require.NoError(t, err)
	assert.Equal(t, "keeper", first.Username)

	second, _, err := svc.Register(ctx, "two@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Username, second.Username)
	assert.Regexp(t, `^keeper-[0-9a-f]{4}$`, second.Username)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "gm@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, "gm@example.com", "doorkeeper1")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = svc.Login(ctx, "gm@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "doorkeeper1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, "gm@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The presented refresh token is single-use.
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, "gm@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	// Access tokens are never valid refresh tokens.
	err = svc.Logout(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}
