package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionService issues and verifies the signed token that identifies a
// logged-in user across requests. The token is self-contained: it carries
// the username, so no server-side session table exists, and the signature
// proves the client did not forge it.
type SessionService struct {
	secret []byte
	ttl    time.Duration // zero means tokens never expire
}

func NewSessionService(secret string, ttl time.Duration) *SessionService {
	return &SessionService{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// IssueToken signs a token bound to username. Issuance time is always
// recorded; an expiry is added only when a TTL is configured.
func (s *SessionService) IssueToken(username string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// CurrentUser decodes a token into a username. Every failure mode (missing,
// malformed, tampered, expired) means the caller is anonymous, so it reports
// ok=false instead of an error.
func (s *SessionService) CurrentUser(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", false
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
