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
)

// TodoHandler serves the caller's own todos. The owner ID always comes
// from the verified claims, never from the request.
type TodoHandler struct {
	todos *service.TodoService
}

func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

func ownerID(c *gin.Context) (uint, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
		return 0, false
	}
	return claims.UserID, true
}

func parseTodoFilter(c *gin.Context) dto.TodoFilter {
	filter := dto.TodoFilter{
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if completedStr := c.Query("completed"); completedStr != "" {
		if completed, err := strconv.ParseBool(completedStr); err == nil {
			filter.Completed = &completed
		}
	}
	return filter
}

// List returns the caller's todos with filtering and pagination
func (h *TodoHandler) List(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "List")

	owner, ok := ownerID(c)
	if !ok {
		return
	}

	params := constants.ParsePaginationParams(c)
	filter := parseTodoFilter(c)

	todos, total, err := h.todos.List(ctx, owner, filter, &params)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to list todos", apperrors.GetErrorMessage(err)))
		return
	}

	pageTotal := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, params.Limit, pageTotal, todos))
}

// Get returns one of the caller's todos
func (h *TodoHandler) Get(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Get")

	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	todo, err := h.todos.Get(ctx, owner, id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to load todo", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(todo))
}

// Create adds a todo owned by the caller
func (h *TodoHandler) Create(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Create")

	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	todo, err := h.todos.Create(ctx, owner, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to create todo", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(todo))
}

// Update replaces one of the caller's todos
func (h *TodoHandler) Update(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Update")

	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	todo, err := h.todos.Update(ctx, owner, id, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to update todo", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(todo))
}

// Patch edits selected fields of one of the caller's todos
func (h *TodoHandler) Patch(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Patch")

	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PatchTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	todo, err := h.todos.Patch(ctx, owner, id, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to update todo", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(todo))
}

// Delete removes one of the caller's todos
func (h *TodoHandler) Delete(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Delete")

	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.todos.Delete(ctx, owner, id); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to delete todo", apperrors.GetErrorMessage(err)))
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats serves todo aggregates across all users
func (h *TodoHandler) Stats(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Stats")

	stats, err := h.todos.Stats(ctx)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to compute statistics", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(stats))
}
