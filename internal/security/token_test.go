package security

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestNewResetTokenIsURLSafe(t *testing.T) {
	token, digest, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, token, 48)
	assert.Regexp(t, urlSafe, token)
	assert.Equal(t, TokenDigest(token), digest)

	other, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestNewRefreshTokenIsLongerThanReset(t *testing.T) {
	token, digest, err := NewRefreshToken()
	require.NoError(t, err)

	assert.Len(t, token, 86)
	assert.Regexp(t, urlSafe, token)
	assert.Len(t, digest, 32)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	sub := AccessSubject{UserID: "user-1", SessionID: "session-1", DeviceID: "device-1", Role: "admin"}
	signed, err := GenerateAccessToken("secret", sub, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "device-1", claims.DeviceID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, AccessIssuer, claims.Issuer)

	_, err = ParseAccessToken(signed, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestAccessTokenExpires(t *testing.T) {
	sub := AccessSubject{UserID: "user-1", SessionID: "session-1", Role: "editor"}
	signed, err := GenerateAccessToken("secret", sub, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(signed, "secret")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestParseAccessTokenRejectsForeignTokens(t *testing.T) {
	sign := func(method jwt.SigningMethod, claims AccessClaims) string {
		signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return signed
	}
	expiry := jwt.NewNumericDate(time.Now().Add(time.Minute))

	cases := map[string]string{
		"other issuer": sign(jwt.SigningMethodHS512, AccessClaims{
			UserID: "u", SessionID: "s",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: expiry},
		}),
		"weaker algorithm": sign(jwt.SigningMethodHS256, AccessClaims{
			UserID: "u", SessionID: "s",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: AccessIssuer, ExpiresAt: expiry},
		}),
		"no expiry": sign(jwt.SigningMethodHS512, AccessClaims{
			UserID: "u", SessionID: "s",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: AccessIssuer},
		}),
		"no session": sign(jwt.SigningMethodHS512, AccessClaims{
			UserID:           "u",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: AccessIssuer, ExpiresAt: expiry},
		}),
	}
	for name, signed := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(signed, "secret")
			assert.ErrorIs(t, err, ErrInvalidAccessToken)
		})
	}
}
