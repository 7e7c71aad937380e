package domain

import "time"

// Token types carried in the "typ" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims represents verified JWT claims
type TokenClaims struct {
	UserID    string
	Role      Role
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair represents a pair of access and refresh tokens.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().After(tc.ExpiresAt)
}
