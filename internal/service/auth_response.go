package service

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/utils"
)

// issueTokens signs a new pair and makes its refresh token the only one
// accepted for the user, superseding whatever was stored before
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	tokens, err := s.jwtManager.Issue(user.ID, user.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	digest := utils.HashToken(tokens.RefreshToken)
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &digest); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to save refresh token: %w", err)
	}
	user.RefreshTokenHash = &digest

	return tokens, nil
}
