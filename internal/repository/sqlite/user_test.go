package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/model"
)

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     "tester",
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortesting",
		Role:         model.RoleUser,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "sam@example.com")

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "dup@example.com")

	err := db.CreateUser(context.Background(), &model.User{
		Username:     "other",
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	})
	if err == nil {
		t.Fatal("CreateUser() should fail on duplicate email (UNIQUE index)")
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam@example.com")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}

	if found.Email != "sam@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "sam@example.com")
	}
	if found.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", found.PasswordHash, created.PasswordHash)
	}
	if found.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", found.Role, model.RoleUser)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "find-me@example.com")

	found, err := db.GetUserByEmail(context.Background(), "find-me@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
