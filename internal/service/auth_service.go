package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/dto"
	"github.com/prperemyshlev/storefront/internal/repository"
	"github.com/prperemyshlev/storefront/internal/utils"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	userRepo    repository.UserRepository
	jwtManager  *utils.JWTManager
	revocations RevocationList
	metrics     *Metrics
	logger      *zap.Logger
	bcryptCost  int
	// dummyHash is compared against when the email is unknown so that both
	// login failure paths spend one bcrypt comparison
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	revocations RevocationList,
	metrics *Metrics,
	logger *zap.Logger,
	bcryptCost int,
) (AuthService, error) {
	dummyHash, err := utils.HashPassword("storefront-unknown-account", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &authService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		revocations: revocations,
		metrics:     metrics,
		logger:      logger,
		bcryptCost:  bcryptCost,
		dummyHash:   dummyHash,
	}, nil
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (result *AuthResult, err error) {
	defer func() { s.metrics.authEvent(ctx, "register", err) }()

	if !utils.ValidateUserName(req.UserName) {
		return nil, newValidationError("user_name", "must be between 1 and 50 characters")
	}

	email := utils.SanitizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, newValidationError("email", "invalid email format")
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, newValidationError("password", fmt.Sprintf("must be at least %d characters and at most %d bytes long", utils.MinPasswordLength, utils.MaxPasswordBytes))
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		UserName:     strings.TrimSpace(req.UserName),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		Telephone:    req.Telephone,
		Address:      req.Address,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login authenticates a user. Unknown email and wrong password fail the same
// way; the banned check only runs once the password is proven.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (result *AuthResult, err error) {
	defer func() { s.metrics.authEvent(ctx, "login", err) }()

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.CheckPasswordHash(req.Password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned() {
		s.logger.Warn("Login attempt on banned account", zap.String("user_id", user.ID))
		return nil, ErrAccountBanned
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// be the one currently stored for the user; the swap to the new token is a
// compare-and-swap so a token can be spent once.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (pair *domain.TokenPair, err error) {
	defer func() { s.metrics.authEvent(ctx, "refresh", err) }()

	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.jwtManager.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsBanned() {
		return nil, ErrInvalidToken
	}

	digest := utils.HashToken(refreshToken)
	if user.RefreshTokenHash == nil || !utils.DigestsEqual(*user.RefreshTokenHash, digest) {
		s.checkReuse(ctx, user.ID, digest)
		return nil, ErrInvalidToken
	}

	tokens, err := s.jwtManager.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	swapped, err := s.userRepo.RotateRefreshToken(ctx, user.ID, digest, utils.HashToken(tokens.RefreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}
	if !swapped {
		s.logger.Warn("Refresh token rotated concurrently", zap.String("user_id", user.ID))
		return nil, ErrInvalidToken
	}

	if err := s.revocations.Revoke(ctx, digest, claims.ExpiresAt); err != nil {
		s.logger.Warn("Failed to remember rotated refresh token", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &tokens, nil
}

// checkReuse logs a presented token that was already rotated out
func (s *authService) checkReuse(ctx context.Context, userID, digest string) {
	revoked, err := s.revocations.IsRevoked(ctx, digest)
	if err != nil {
		s.logger.Warn("Failed to check rotated refresh tokens", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if revoked {
		s.metrics.refreshTokenReuse(ctx)
		s.logger.Warn("Rotated refresh token presented again", zap.String("user_id", userID))
	}
}

// Logout clears the stored refresh token. Logging out twice is not an error.
func (s *authService) Logout(ctx context.Context, userID string) (err error) {
	defer func() { s.metrics.authEvent(ctx, "logout", err) }()

	if err := s.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// GetUser gets user information
func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ValidateToken verifies an access token without touching the store
func (s *authService) ValidateToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.VerifyAccess(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Authorize re-reads the user so role changes apply before the access token expires
func (s *authService) Authorize(ctx context.Context, userID string, roles ...domain.Role) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(roles...) {
		return nil, ErrForbidden
	}
	return user, nil
}

// UpdateStatus changes an account status; banning ends the user's session
func (s *authService) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.logger.Info("User status changed", zap.String("user_id", userID), zap.String("status", string(status)))

	return s.GetUser(ctx, userID)
}

// UpdateRole changes an account role
func (s *authService) UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, newValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Info("User role changed", zap.String("user_id", userID), zap.String("role", string(role)))

	return s.GetUser(ctx, userID)
}
