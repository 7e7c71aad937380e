package domain

import "time"

// Role is the authorization role stored on a user record
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus is the lifecycle status of an account
type UserStatus string

const (
	StatusActive     UserStatus = "active"
	StatusUnverified UserStatus = "unverified"
	StatusBanned     UserStatus = "banned"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusUnverified, StatusBanned:
		return true
	}
	return false
}

// User represents a credential record.
// RefreshTokenHash holds the SHA-256 digest of the only refresh token currently
// accepted for the user, or nil when the user has no session.
type User struct {
	ID               string     `json:"id" db:"id"`
	UserName         string     `json:"user_name" db:"user_name"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Role             Role       `json:"role" db:"role"`
	Status           UserStatus `json:"status" db:"status"`
	Telephone        string     `json:"telephone" db:"telephone"`
	Address          string     `json:"address" db:"address"`
	RefreshTokenHash *string    `json:"-" db:"refresh_token_hash"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// IsBanned reports whether the account is banned
func (u *User) IsBanned() bool {
	return u.Status == StatusBanned
}

// HasRole reports whether the user's role is one of roles
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
