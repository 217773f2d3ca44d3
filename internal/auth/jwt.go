// Package auth implements the token side of authentication: issuing and
// parsing the JWTs that bind a caller to a user id. A token is only half of
// the story — the façade additionally checks that the token's session still
// exists, so logout can invalidate tokens that are cryptographically valid.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by an access token
type Claims struct {
	UserID    int64  `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Service issues and validates access tokens
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a token service. A zero ttl issues tokens without an expiry
// claim; they stay valid until their session is deleted.
func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed token for the user, together with the fresh
// session id embedded in it. The caller is expected to persist the session.
func (s *Service) Issue(userID int64) (token, sessionID string, err error) {
	sessionID = uuid.New().String()

	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.ttl))
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, sessionID, nil
}

// Parse validates the token's signature and expiry and returns its claims.
func (s *Service) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token: missing session id")
	}
	return claims, nil
}
