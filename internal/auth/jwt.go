// Package auth provides password hashing, session tokens and the session
// middleware for the coffee finder.
//
// SESSION FLOW:
//  1. POST /login checks the email and bcrypt hash.
//  2. The server issues a signed JWT for the user and stores it in the
//     HttpOnly "session" cookie.
//  3. On every request LoadSession reads the cookie, validates the JWT and
//     puts the Session into the request context.
//  4. Handlers read the current user with SessionFromContext. No user id is
//     ever assumed.
//
// The token is HS256:
//
//	HEADER.PAYLOAD.SIGNATURE
//	payload: {"sub":"<user id>","email":"...","adm":true,"jti":"<xid>","exp":...}
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "coffee-finder"

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 16

// Session identifies the logged-in user for one request.
type Session struct {
	UserID int64
	Email  string
	Admin  bool
}

// TokenService signs and validates session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService whose tokens live for ttl.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: session secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: session ttl must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// GenerateSecret returns a random 256-bit hex secret, used when no session
// secret is configured. Sessions signed with it do not survive a restart.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TTL is how long issued tokens stay valid; the session cookie uses the
// same lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

type claims struct {
	Email string `json:"email"`
	Admin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// Generate creates a signed token for sess with the service's ttl.
func (s *TokenService) Generate(sess Session) (string, error) {
	return s.GenerateWithDuration(sess, s.ttl)
}

// GenerateWithDuration creates a token with a custom lifetime. Tests use a
// negative duration to produce expired tokens.
func (s *TokenService) GenerateWithDuration(sess Session, d time.Duration) (string, error) {
	if sess.UserID <= 0 {
		return "", errors.New("auth: session has no user id")
	}

	now := time.Now()
	c := claims{
		Email: sess.Email,
		Admin: sess.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   strconv.FormatInt(sess.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature, algorithm, issuer and expiry of tokenStr
// and returns the session it carries.
func (s *TokenService) Validate(tokenStr string) (Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, errors.New("auth: token expired")
		}
		return Session{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Session{}, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, fmt.Errorf("auth: token subject %q is not a user id", c.Subject)
	}

	return Session{UserID: userID, Email: c.Email, Admin: c.Admin}, nil
}
