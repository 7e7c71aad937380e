package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prperemyshlev/storefront/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// wrong token type or missing claims
var ErrInvalidToken = errors.New("invalid token")

// claims is the JWT payload shared by access and refresh tokens
type claims struct {
	Role      domain.Role `json:"role,omitempty"`
	TokenType string      `json:"typ"`
	jwt.RegisteredClaims
}

// JWTManager manages JWT token operations. Access and refresh tokens are
// signed with different secrets so one can never be replayed as the other.
type JWTManager struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(accessSecret, refreshSecret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
		now:                time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying
func (j *JWTManager) WithClock(now func() time.Time) *JWTManager {
	j.now = now
	return j
}

// Issue signs a new access/refresh pair for the user
func (j *JWTManager) Issue(userID string, role domain.Role) (domain.TokenPair, error) {
	accessToken, err := j.sign(userID, role, domain.TokenTypeAccess, j.accessTokenExpiry, j.accessSecret)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := j.sign(userID, "", domain.TokenTypeRefresh, j.refreshTokenExpiry, j.refreshSecret)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    j.AccessTokenExpirySeconds(),
	}, nil
}

// VerifyAccess checks signature and expiry of an access token. No store lookup.
func (j *JWTManager) VerifyAccess(tokenString string) (*domain.TokenClaims, error) {
	tc, err := j.verify(tokenString, domain.TokenTypeAccess, j.accessSecret)
	if err != nil {
		return nil, err
	}
	if !tc.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role claim", ErrInvalidToken)
	}
	return tc, nil
}

// VerifyRefresh checks signature and expiry of a refresh token. Matching it
// against the persisted token is the caller's job.
func (j *JWTManager) VerifyRefresh(tokenString string) (*domain.TokenClaims, error) {
	return j.verify(tokenString, domain.TokenTypeRefresh, j.refreshSecret)
}

// AccessTokenExpirySeconds returns the access token lifetime in seconds
func (j *JWTManager) AccessTokenExpirySeconds() int {
	return int(j.accessTokenExpiry.Seconds())
}

// RefreshTokenExpiry returns the refresh token lifetime
func (j *JWTManager) RefreshTokenExpiry() time.Duration {
	return j.refreshTokenExpiry
}

func (j *JWTManager) sign(userID string, role domain.Role, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := j.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (j *JWTManager) verify(tokenString, tokenType string, secret []byte) (*domain.TokenClaims, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if parsed.TokenType != tokenType {
		return nil, fmt.Errorf("%w: invalid token type", ErrInvalidToken)
	}

	if parsed.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	tc := &domain.TokenClaims{
		UserID:    parsed.Subject,
		Role:      parsed.Role,
		TokenType: parsed.TokenType,
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		tc.IssuedAt = parsed.IssuedAt.Time
	}

	return tc, nil
}
