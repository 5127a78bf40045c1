package repository

import (
	"context"

	"github.com/surdiana/todoapi/internal/dto"
	"github.com/surdiana/todoapi/internal/model"
)

// UserRepository is the credential store adapter. The refresh-token
// operations are deliberately narrow so the single-use rotation contract
// can be enforced inside one transaction at this boundary.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetWithRelations(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByCredential looks a user up by email or username; email wins
	// when both are supplied.
	FindByCredential(ctx context.Context, email, username string) (*model.User, error)
	GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error

	FindByVerificationToken(ctx context.Context, verificationToken string) (*model.User, error)
	// MarkEmailVerified flips the verification flag and clears the token in
	// a single update, making redemption single-use.
	MarkEmailVerified(ctx context.Context, id uint) error

	AddRefreshToken(ctx context.Context, userID uint, refreshToken string) error
	// RotateRefreshToken removes oldToken and inserts newToken in one
	// transaction. Returns gorm.ErrRecordNotFound when oldToken is not in
	// the user's active set (rotated-out token replay).
	RotateRefreshToken(ctx context.Context, userID uint, oldToken, newToken string) error
	// RemoveRefreshToken deletes the token wherever it lives and reports
	// the owning user. Returns gorm.ErrRecordNotFound when no user owns it.
	RemoveRefreshToken(ctx context.Context, refreshToken string) (uint, error)
	HasRefreshToken(ctx context.Context, userID uint, refreshToken string) (bool, error)

	Follow(ctx context.Context, followerID, followingID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followingID uint) error

	CountByRole(ctx context.Context, role string) (int64, error)
	CountByStatus(ctx context.Context, active bool) (int64, error)
}

// TodoRepository is the todo store adapter. Every per-user operation is
// scoped by ownerID; the aggregate queries back the admin statistics views.
type TodoRepository interface {
	GetAll(ctx context.Context, ownerID uint, filter dto.TodoFilter, limit, offset int) ([]model.Todo, int64, error)
	GetAllByOwner(ctx context.Context, ownerID uint) ([]model.Todo, error)
	GetByID(ctx context.Context, ownerID, id uint) (*model.Todo, error)
	Create(ctx context.Context, todo *model.Todo) error
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, ownerID, id uint) error

	CountByCompleted(ctx context.Context, completed bool) (int64, error)
	CountByPriority(ctx context.Context, priority string) (int64, error)
	CountOverdue(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}
