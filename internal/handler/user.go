package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/middleware"
	"github.com/surdiana/todoapi/internal/service"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
)

// UserHandler serves the admin user management surface and the profile
// follow endpoints.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid id parameter", nil))
		return 0, false
	}
	return uint(id), true
}

// GetAll lists users with pagination and username search
func (h *UserHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetAll")

	params := constants.ParsePaginationParams(c)

	users, total, err := h.users.GetAll(ctx, &params)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to list users", apperrors.GetErrorMessage(err)))
		return
	}

	pageTotal := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, params.Limit, pageTotal, users))
}

// GetByID returns a single user with relations
func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetByID")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to load user", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}

// Create provisions a verified account directly
func (h *UserHandler) Create(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Create")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	user, err := h.users.CreateUser(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Admin user creation failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to create user", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(user))
}

// Update edits another user's account fields
func (h *UserHandler) Update(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Update")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	user, err := h.users.UpdateUser(ctx, id, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to update user", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}

// Delete removes a user account
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Delete")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(ctx, id); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to delete user", apperrors.GetErrorMessage(err)))
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeRole switches a user between the user and admin roles
func (h *UserHandler) ChangeRole(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ChangeRole")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	user, err := h.users.ChangeRole(ctx, id, req.Role)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to change role", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}

// ChangeStatus activates or deactivates an account
func (h *UserHandler) ChangeStatus(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ChangeStatus")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	user, err := h.users.ChangeStatus(ctx, id, *req.IsActive)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to change status", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}

// Follow makes the caller follow the target user
func (h *UserHandler) Follow(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Follow")

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.users.Follow(ctx, claims.UserID, id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to follow user", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(resp))
}

// Unfollow removes the caller's follow edge to the target user
func (h *UserHandler) Unfollow(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Unfollow")

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.users.Unfollow(ctx, claims.UserID, id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to unfollow user", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(resp))
}

// GetOwnProfile returns the caller's own account. The profile surface
// never exposes the user directory.
func (h *UserHandler) GetOwnProfile(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetOwnProfile")

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

// UpdateProfile edits the profile block of the caller's own account.
// The path id must match the token; email, role and status stay out of
// reach here.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateProfile")

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if id != claims.UserID {
		logger.WarnWithContext(ctx, "Profile update for another account rejected").
			Uint("target_user_id", id).
			Log()
		c.JSON(http.StatusForbidden, constants.BuildErrorResponse(apperrors.ErrForbidden.Message, nil))
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

// DeleteProfile removes an account: the caller's own, or anyone's when
// the caller is an admin.
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "DeleteProfile")

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if id != claims.UserID && claims.Role != constants.RoleAdmin {
		logger.WarnWithContext(ctx, "Profile delete for another account rejected").
			Uint("target_user_id", id).
			Log()
		c.JSON(http.StatusForbidden, constants.BuildErrorResponse(apperrors.ErrForbidden.Message, nil))
		return
	}

	if err := h.users.DeleteUser(ctx, id); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to delete user", apperrors.GetErrorMessage(err)))
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUserTodos lists another user's todos
func (h *UserHandler) GetUserTodos(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetUserTodos")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	todos, err := h.users.GetUserTodos(ctx, id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to load todos", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(todos))
}

// Statistics serves the aggregate dashboard counts
func (h *UserHandler) Statistics(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Statistics")

	stats, err := h.users.Statistics(ctx)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to compute statistics", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(stats))
}
