package service

import (
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/security"
	"Booklet/internal/pkg/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T) (TokenService, *security.TokenIssuer) {
	testutil.NewTestRedis(t)
	issuer := security.NewTokenIssuer("secret", "auth")
	return NewTokenService(issuer, 15*time.Minute, 24*time.Hour), issuer
}

func issuePair(t *testing.T, issuer *security.TokenIssuer, userID uint64) (access, refresh string) {
	t.Helper()
	access, err := issuer.GenerateToken(userID, consts.TokenTypeAccess, 15*time.Minute)
	require.NoError(t, err)
	refresh, err = issuer.GenerateToken(userID, consts.TokenTypeRefresh, 24*time.Hour)
	require.NoError(t, err)
	return access, refresh
}

func TestTokenLifecycle(t *testing.T) {
	svc, issuer := newTokenService(t)
	ctx := context.Background()
	access, refresh := issuePair(t, issuer, 42)

	userID, err := svc.ValidateAccessToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)

	// 刷新令牌不能当作访问令牌使用
	_, err = svc.ValidateAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	refreshed, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.Empty(t, refreshed.RefreshToken)
	assert.Equal(t, "Bearer", refreshed.TokenType)
	assert.Equal(t, int64(900), refreshed.ExpiresIn)
	userID, err = svc.ValidateAccessToken(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)

	_, err = svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeToken(t *testing.T) {
	svc, issuer := newTokenService(t)
	ctx := context.Background()
	access, _ := issuePair(t, issuer, 7)

	require.NoError(t, svc.Revoke(ctx, access))

	_, err := svc.ValidateAccessToken(ctx, access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	assert.ErrorIs(t, svc.Revoke(ctx, "garbage"), ErrTokenInvalid)
}

func TestValidateTokenRejects(t *testing.T) {
	svc, issuer := newTokenService(t)
	ctx := context.Background()

	_, err := svc.ValidateAccessToken(ctx, "")
	assert.ErrorIs(t, err, ErrTokenMissing)

	expired, err := issuer.GenerateToken(42, consts.TokenTypeAccess, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	forged, err := security.NewTokenIssuer("other", "auth").GenerateToken(42, consts.TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	zero, err := issuer.GenerateToken(0, consts.TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, zero)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
