package models

import (
	"database/sql"
	"time"
)

// Column limits of the users table.
const (
	MaxUsernameLen = 64
	MaxEmailLen    = 255
)

// User represents a row of the users table.
type User struct {
	ID           int64          `json:"id" db:"id"`                 // Primary key
	Username     string         `json:"username" db:"username"`     // Unique username
	PasswordHash string         `json:"-" db:"password_hash"`       // argon2id encoded hash, never serialised
	Email        sql.NullString `json:"-" db:"email"`               // Optional email
	CreatedAt    time.Time      `json:"created_at" db:"created_at"` // Creation timestamp
	LastLogin    *time.Time     `json:"last_login" db:"last_login"` // Set on every successful login
}

// PublicUser is the only user shape returned to clients.
// swagger:model PublicUser
type PublicUser struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

// Public strips the credential from the user.
func (u User) Public() PublicUser {
	p := PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
	if u.Email.Valid {
		email := u.Email.String
		p.Email = &email
	}
	return p
}
