// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Handlers only know about HTTP. Services only know about business rules.
// Neither knows about SQL. Services receive repository INTERFACES, so tests
// swap in in-memory mocks without touching a database.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/model"
	"github.com/sakif/belfast-eats/internal/repository"
)

// AuthService handles registration, login, and profile lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger

	// adminInviteCode gates self-registration of admin accounts. Empty means
	// admin registration is disabled entirely — no code can match.
	adminInviteCode string
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	adminInviteCode string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:           users,
		tokens:          tokens,
		passwords:       passwords,
		adminInviteCode: adminInviteCode,
		logger:          logger,
	}
}

// RegisterInput is what the register endpoint collects. Username, Role, and
// InviteCode are optional in the payload; Email and Password are not.
type RegisterInput struct {
	Email      string
	Password   string
	Username   string
	Role       string
	InviteCode string
}

// Register creates a new account.
//
// Rules, in order:
//   - email and password are required
//   - a taken email is rejected before any insert happens
//   - requesting the admin role requires the correct invite code; a wrong or
//     missing code is a Forbidden error, not a silent downgrade
//   - any role value other than "admin"/"user" quietly becomes "user"
//   - a missing username defaults to the email's local part
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperror.ValidationFailed("email", "Missing required fields")
	}

	// Uniqueness pre-check. The UNIQUE index would also catch this, but the
	// explicit lookup gives the caller a clean error instead of a driver one.
	if _, err := s.users.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("Email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email uniqueness: %w", err)
	}

	if input.Role == string(model.RoleAdmin) {
		if s.adminInviteCode == "" || input.InviteCode != s.adminInviteCode {
			return nil, apperror.Forbidden("Invalid admin invite code")
		}
	}

	username := input.Username
	if username == "" {
		// Default to the email's local part: "sam@example.com" → "sam"
		username, _, _ = strings.Cut(input.Email, "@")
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         model.ParseRole(input.Role),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// LoginResult bundles the issued token with the identity it asserts, for the
// login response body.
type LoginResult struct {
	Token  string
	UserID string
	Role   model.Role
}

// Login verifies credentials and issues an access token.
//
// Unknown email and wrong password both return the same Unauthorized error —
// the response must not reveal which addresses have accounts. The role
// embedded in the token is the user's role right now; it stays in the token
// untouched until expiry even if the stored role changes later.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "Missing credentials")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &LoginResult{
		Token:  token,
		UserID: user.ID,
		Role:   user.Role,
	}, nil
}

// GetUserByID returns the user for the given internal ID. Used by /auth/me
// after the middleware validates the token — an account deleted out-of-band
// surfaces as NotFound here.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}
