package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "booklet")

	token, err := issuer.GenerateToken(42, "access", time.Minute)
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token, "access")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "booklet", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", "booklet")

	expired, err := issuer.GenerateToken(42, "access", -time.Minute)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(expired, "access")
	assert.Error(t, err)

	refresh, err := issuer.GenerateToken(42, "refresh", time.Minute)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(refresh, "access")
	assert.ErrorIs(t, err, ErrTokenType)

	other, err := NewTokenIssuer("other", "booklet").GenerateToken(42, "access", time.Minute)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(other, "access")
	assert.Error(t, err)

	anonymous, err := issuer.GenerateToken(0, "access", time.Minute)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(anonymous, "access")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestAssertionAudience(t *testing.T) {
	issuer := NewTokenIssuer("assert", "gateway")

	assertion, err := issuer.GenerateAssertion(7, "blogs", time.Minute)
	require.NoError(t, err)

	userID, err := issuer.ValidateAssertion(assertion, "blogs")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)

	_, err = issuer.ValidateAssertion(assertion, "profile")
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	token, ok := ExtractBearer("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	token, ok = ExtractBearer("  bearer   xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, ok = ExtractBearer(h)
		assert.False(t, ok, h)
	}
}

func TestExtractSignature(t *testing.T) {
	sig, err := ExtractSignature("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "c", sig)

	_, err = ExtractSignature("a.b.")
	assert.ErrorIs(t, err, ErrTokenMalformed)
	_, err = ExtractSignature("a.b")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
