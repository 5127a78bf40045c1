package repository

import (
	"context"
	"time"

	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"

	"github.com/surdiana/todoapi/internal/dto"
	"github.com/surdiana/todoapi/internal/model"
	"gorm.io/gorm"
)

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) GetAll(ctx context.Context, ownerID uint, filter dto.TodoFilter, limit, offset int) ([]model.Todo, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	start := time.Now()
	var todos []model.Todo
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Todo{}).Where("user_id = ?", ownerID)

	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		query = query.Where("text ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count todos").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&todos).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch todos").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	return todos, total, nil
}

func (r *todoRepository) GetAllByOwner(ctx context.Context, ownerID uint) ([]model.Todo, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAllByOwner")

	var todos []model.Todo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&todos).Error
	return todos, err
}

func (r *todoRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.Todo, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var todo model.Todo
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&todo)
	if result.Error != nil {
		return nil, result.Error
	}

	return &todo, nil
}

func (r *todoRepository) Create(ctx context.Context, todo *model.Todo) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create todo").
			Uint("owner_id", todo.UserID).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *todoRepository) Update(ctx context.Context, todo *model.Todo) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Update")

	result := r.db.WithContext(ctx).Save(todo)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update todo").
			Uint("todo_id", todo.ID).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

func (r *todoRepository) Delete(ctx context.Context, ownerID, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *todoRepository) CountByCompleted(ctx context.Context, completed bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Todo{}).
		Where("completed = ?", completed).
		Count(&count).Error
	return count, err
}

func (r *todoRepository) CountByPriority(ctx context.Context, priority string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Todo{}).
		Where("priority = ?", priority).
		Count(&count).Error
	return count, err
}

func (r *todoRepository) CountOverdue(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Todo{}).
		Where("completed = ? AND due_date IS NOT NULL AND due_date < ?", false, time.Now()).
		Count(&count).Error
	return count, err
}

func (r *todoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Todo{}).Count(&count).Error
	return count, err
}
