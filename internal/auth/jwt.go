// Package auth provides JWT issuance/validation and password hashing for the API.
//
// AUTHENTICATION FLOW:
// 1. User POSTs email+password to /api/v1.0/auth/login
// 2. Server verifies the bcrypt hash and issues a signed JWT
// 3. The client sends it back on every request: Authorization: Bearer <token>
// 4. Middleware validates the signature and puts the identity in the request context
//
// WHY JWT?
// JWT is stateless — the server doesn't store session data. Everything needed
// (user ID, role, expiry) is inside the signed token, and the signature
// ensures nobody can tamper with it without the secret key.
//
// ROLE CLAIM STALENESS:
// The role is embedded at issuance time and trusted until the token expires.
// It is NOT re-read from the users table on every request, so promoting or
// demoting a user takes effect only when they next log in. That window is
// bounded by the token TTL and is an accepted trade-off here.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/belfast-eats/internal/model"
)

const issuer = "belfast-eats"

// Identity is what a validated token asserts about its bearer: who they are
// and what role they held when the token was issued.
type Identity struct {
	UserID string
	Role   model.Role
}

// IsAdmin reports whether the token carried the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == model.RoleAdmin
}

// TokenService signs and verifies access tokens.
//
// It holds the HMAC secret and the token lifetime. The TTL is configuration,
// not a constant — the default (3h) is development-friendly and production
// deployments shorten it via JWT_TTL.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token TTL.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. The standard "sub" claim carries the user ID;
// "role" is our one custom claim.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs an access token for the given user and role.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, the same key signs and
// verifies. Fine for a single-server deployment like this one.
func (s *TokenService) Generate(userID string, role model.Role) (string, error) {
	return s.generate(userID, role, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, role model.Role, d time.Duration) (string, error) {
	return s.generate(userID, role, d)
}

func (s *TokenService) generate(userID string, role model.Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the Identity it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps)
//   - Algorithm is HS256 — jwt.WithValidMethods blocks algorithm confusion
//     attacks where an attacker submits an "alg":"none" token
//
// A missing or unknown role claim degrades to the ordinary user role rather
// than failing; the same coercion registration applies.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
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
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}

	return Identity{
		UserID: c.Subject,
		Role:   model.ParseRole(c.Role),
	}, nil
}
