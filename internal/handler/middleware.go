package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/service"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextClaims = "claims"
)

// AuthMiddleware validates the bearer access token and adds user info to context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireRole lets the request through only when the user's current role,
// read from the store, is one of roles. Must run after AuthMiddleware.
func RequireRole(authService service.AuthService, logger *zap.Logger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := authService.Authorize(c.Request.Context(), userID, roles...)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.Set(ContextRole, user.Role)
		c.Next()
	}
}
