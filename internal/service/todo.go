package service

import (
	"context"
	"errors"

	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/model"
	"github.com/surdiana/todoapi/internal/repository"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
	"gorm.io/gorm"
)

// TodoService is the owner-scoped todo surface. Every operation takes the
// caller's user ID and never reaches outside that partition; a todo owned
// by someone else is indistinguishable from a missing one.
type TodoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

func (s *TodoService) List(ctx context.Context, ownerID uint, filter dto.TodoFilter, params *constants.PaginationParams) ([]dto.TodoResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "List")

	todos, total, err := s.todos.GetAll(ctx, ownerID, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toTodoResponse(&todos[i]))
	}

	return responses, total, nil
}

func (s *TodoService) Get(ctx context.Context, ownerID, id uint) (*dto.TodoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Get")

	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toTodoResponse(todo), nil
}

func (s *TodoService) Create(ctx context.Context, ownerID uint, req *dto.CreateTodoRequest) (*dto.TodoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Create")

	priority := req.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}

	todo := &model.Todo{
		Text:      req.Text,
		Completed: req.Completed,
		Priority:  priority,
		DueDate:   req.DueDate,
		UserID:    ownerID,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Todo created").
		Uint("todo_id", todo.ID).
		String("priority", todo.Priority).
		Log()

	return toTodoResponse(todo), nil
}

// Update replaces the whole todo. Omitted optional fields fall back to
// their defaults, matching PUT semantics.
func (s *TodoService) Update(ctx context.Context, ownerID, id uint, req *dto.UpdateTodoRequest) (*dto.TodoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Update")

	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	todo.Text = req.Text
	todo.Completed = req.Completed
	todo.Priority = req.Priority
	if todo.Priority == "" {
		todo.Priority = constants.PriorityMedium
	}
	todo.DueDate = req.DueDate

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toTodoResponse(todo), nil
}

// Patch applies only the supplied fields and leaves the rest untouched.
func (s *TodoService) Patch(ctx context.Context, ownerID, id uint, req *dto.PatchTodoRequest) (*dto.TodoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Patch")

	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.Text != nil {
		todo.Text = *req.Text
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toTodoResponse(todo), nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Delete")

	if err := s.todos.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTodoNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Todo deleted").
		Uint("todo_id", id).
		Log()

	return nil
}

// Stats aggregates across all owners; the admin router gates it.
func (s *TodoService) Stats(ctx context.Context) (*dto.TodoStatsResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Stats")

	stats := &dto.TodoStatsResponse{}

	var err error
	if stats.Total, err = s.todos.Count(ctx); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Completed, err = s.todos.CountByCompleted(ctx, true); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	stats.Pending = stats.Total - stats.Completed

	if stats.ByPriority.Low, err = s.todos.CountByPriority(ctx, constants.PriorityLow); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.ByPriority.Medium, err = s.todos.CountByPriority(ctx, constants.PriorityMedium); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.ByPriority.High, err = s.todos.CountByPriority(ctx, constants.PriorityHigh); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return stats, nil
}
