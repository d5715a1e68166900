package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	exp := time.Now().Add(AccessTokenTTL).UTC()

	token, err := NewAccessToken(userID, "admin", accessSecret, exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, accessSecret)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	exp := time.Now().Add(RefreshTokenTTL).UTC()

	token, err := NewRefreshToken(userID, refreshSecret, exp)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(token, refreshSecret)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestRefreshToken_UniquePerIssue(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	exp := time.Now().Add(RefreshTokenTTL)

	first, err := NewRefreshToken(userID, refreshSecret, exp)
	require.NoError(t, err)
	second, err := NewRefreshToken(userID, refreshSecret, exp)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAccessToken_ExpiredIsInvalid(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(uuid.NewString(), "reader", accessSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, accessSecret)
	assert.Nil(t, claims)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerification_AllFailuresCollapseToInvalid(t *testing.T) {
	t.Parallel()

	valid, err := NewAccessToken(uuid.NewString(), "reader", accessSecret, time.Now().Add(AccessTokenTTL))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "garbage", token: "not-a-jwt", secret: accessSecret},
		{name: "empty", token: "", secret: accessSecret},
		{name: "wrong secret", token: valid, secret: []byte("other-secret")},
		{name: "truncated", token: valid[:len(valid)-10], secret: accessSecret},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := AccessClaimsFromToken(tt.token, tt.secret)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenKinds_CannotBeConfused(t *testing.T) {
	t.Parallel()

	refresh, err := NewRefreshToken(uuid.NewString(), refreshSecret, time.Now().Add(RefreshTokenTTL))
	require.NoError(t, err)

	// A refresh token must never verify as an access token: the secrets
	// differ, and even under the access secret it carries no role claim.
	claims, err := AccessClaimsFromToken(refresh, accessSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := NewAccessToken(uuid.NewString(), "reader", accessSecret, time.Now().Add(AccessTokenTTL))
	require.NoError(t, err)

	refreshClaims, err := RefreshClaimsFromToken(access, refreshSecret)
	assert.Nil(t, refreshClaims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
