package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/dto"
	"github.com/prperemyshlev/storefront/internal/service"
	"go.uber.org/zap"
)

// AdminHandler manages user accounts. Routes must be guarded by RequireRole.
type AdminHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService service.AuthService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		logger:      logger,
	}
}

// UpdateStatus changes a user's status; banning ends the user's session
// @Summary Update user status
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "status is required")
		return
	}

	user, err := h.authService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.UserStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Admin changed user status",
		zap.String("admin_id", c.GetString(ContextUserID)),
		zap.String("user_id", user.ID),
		zap.String("status", string(user.Status)),
	)

	c.JSON(http.StatusOK, dto.UserResponse{Success: true, Data: dto.NewPublicUser(user)})
}

// UpdateRole changes a user's role
// @Summary Update user role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "role is required")
		return
	}

	user, err := h.authService.UpdateRole(c.Request.Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Admin changed user role",
		zap.String("admin_id", c.GetString(ContextUserID)),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	c.JSON(http.StatusOK, dto.UserResponse{Success: true, Data: dto.NewPublicUser(user)})
}
