// Package auth implements the single-admin gate: credential verification
// and the signed session cookie carried by every entity route.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "stagehand_session"

// SessionExpiry is how long a login lasts before the admin must sign in
// again.
const SessionExpiry = 24 * time.Hour

// DefaultLeeway for token validation.
const DefaultLeeway = 30 * time.Second

// ErrInvalidToken is returned when token validation fails.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken is returned when the token has expired.
var ErrExpiredToken = errors.New("token has expired")

// ErrEmptyUsername is returned when a session is issued without a username.
var ErrEmptyUsername = errors.New("username cannot be empty")

// Claims are the session token claims. The subject is the admin username.
type Claims struct {
	jwt.RegisteredClaims
}

// SessionService signs and validates session tokens.
// Supports dual-key rotation: tokens are signed with currentSecret, but can
// be validated with either currentSecret or previousSecret.
type SessionService struct {
	currentSecret  []byte
	previousSecret []byte
	leeway         time.Duration
}

// NewSessionService creates a SessionService with the given secret.
func NewSessionService(secret string) *SessionService {
	return &SessionService{
		currentSecret: []byte(secret),
		leeway:        DefaultLeeway,
	}
}

// NewSessionServiceWithRotation creates a SessionService with dual-key
// support for zero-downtime secret rotation. Set previousSecret to the
// empty string when no rotation is in progress.
func NewSessionServiceWithRotation(currentSecret, previousSecret string) *SessionService {
	svc := &SessionService{
		currentSecret: []byte(currentSecret),
		leeway:        DefaultLeeway,
	}
	if previousSecret != "" {
		svc.previousSecret = []byte(previousSecret)
	}
	return svc
}

// Issue creates a new session token for the given username.
func (s *SessionService) Issue(username string) (string, error) {
	if username == "" {
		return "", ErrEmptyUsername
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.currentSecret)
}

// Validate parses and validates a session token, returning the claims if
// valid. Tries currentSecret first, then previousSecret if available.
func (s *SessionService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.currentSecret, nil
	}, jwt.WithLeeway(s.leeway))

	if err == nil {
		claims, ok := token.Claims.(*Claims)
		if ok && token.Valid {
			return claims, nil
		}
		return nil, ErrInvalidToken
	}

	if s.previousSecret != nil {
		token, retryErr := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrInvalidToken
			}
			return s.previousSecret, nil
		}, jwt.WithLeeway(s.leeway))

		if retryErr == nil {
			claims, ok := token.Claims.(*Claims)
			if ok && token.Valid {
				return claims, nil
			}
		}
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	return nil, ErrInvalidToken
}

// NewSessionCookie wraps a session token in the HttpOnly cookie returned by
// login.
func NewSessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionExpiry / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie returns the cookie that clears the session on
// logout.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
