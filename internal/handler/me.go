package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/middleware"
	"github.com/surdiana/todoapi/internal/service"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
)

// MeHandler serves the caller's own account.
type MeHandler struct {
	users *service.UserService
}

func NewMeHandler(users *service.UserService) *MeHandler {
	return &MeHandler{users: users}
}

// GetMe returns the caller's account with followers and following
func (h *MeHandler) GetMe(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetMe")

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return
	}

	user, err := h.users.GetMe(ctx, claims.UserID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to load profile", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}

// UpdateMe updates the caller's profile block
func (h *MeHandler) UpdateMe(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateMe")

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return
	}

	var req dto.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	user, err := h.users.UpdateMe(ctx, claims.UserID, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to update profile", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}
