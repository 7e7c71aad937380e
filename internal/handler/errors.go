package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/internal/dto"
	"github.com/prperemyshlev/storefront/internal/service"
	"go.uber.org/zap"
)

// statusFor maps service errors to an HTTP status and a public message.
// Anything unrecognised is an internal error whose details stay in the log.
func statusFor(err error) (int, string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, service.ErrAccountBanned):
		return http.StatusForbidden, "Account is banned"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, "User with this email already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes the error envelope for err
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	abortWithError(c, status, message)
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
	})
}
