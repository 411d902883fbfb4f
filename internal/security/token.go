package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessIssuer is stamped on every admin access token and required on parse.
const AccessIssuer = "jhs-admin"

const (
	refreshTokenBytes = 64
	// resetTokenBytes yields a 48 character URL-safe token once encoded.
	resetTokenBytes = 36
)

var ErrInvalidAccessToken = errors.New("invalid access token")

// AccessSubject identifies the admin session an access token speaks for.
type AccessSubject struct {
	UserID    string
	SessionID string
	DeviceID  string
	Role      string
}

type AccessClaims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	DeviceID  string `json:"did"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(secret string, sub AccessSubject, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:    sub.UserID,
		SessionID: sub.SessionID,
		DeviceID:  sub.DeviceID,
		Role:      sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    AccessIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   sub.UserID,
			ID:        sub.SessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken accepts only HS512 tokens issued by AccessIssuer that carry
// an expiry and a session.
func ParseAccessToken(tokenStr string, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(AccessIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// NewRefreshToken returns a refresh token for the client and the digest the
// session row keeps.
func NewRefreshToken() (string, []byte, error) {
	return newOpaqueToken(refreshTokenBytes)
}

// NewResetToken returns a password reset token for the emailed link and the
// digest the reset table keeps.
func NewResetToken() (string, []byte, error) {
	return newOpaqueToken(resetTokenBytes)
}

// TokenDigest is the stored form of a refresh or reset token.
func TokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

func newOpaqueToken(size int) (string, []byte, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, TokenDigest(token), nil
}
