// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Role is a user's permission level. It is stored on the user record and
// embedded in the JWT at login time.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole coerces an arbitrary string to a known role.
// Anything that isn't exactly "admin" or "user" becomes RoleUser — an
// unrecognised role in a registration payload must never escalate privileges.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// User represents a registered account.
//
// PasswordHash is the bcrypt hash of the password — never the password
// itself. The `json:"-"` tag keeps it out of every API response; handlers
// don't need to strip it manually.
//
// Users are created at registration and never mutated or deleted afterwards.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
