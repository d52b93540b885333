package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/model"
	"github.com/sakif/belfast-eats/internal/repository"
)

// Compile-time check that *DB satisfies the interface.
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The ID and CreatedAt are filled in here —
// pointer receiver so the caller sees them after the call.
//
// The UNIQUE index on email is the hard backstop; the service layer does a
// friendlier pre-check with GetByEmail before calling this.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a single user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a single user by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, "email", email)
}

func (db *DB) getUser(ctx context.Context, column, value string) (*model.User, error) {
	var (
		user model.User
		role string
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users
		 WHERE `+column+` = ?`,
		value,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", column, err)
	}

	user.Role = model.ParseRole(role)
	return &user, nil
}
