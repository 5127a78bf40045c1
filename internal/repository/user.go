package repository

import (
	"context"
	"time"

	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"

	"github.com/surdiana/todoapi/internal/model"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Uint("target_user_id", id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetWithRelations(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetWithRelations")

	var user model.User
	result := r.db.WithContext(ctx).
		Preload("Followers").
		Preload("Following").
		Where("id = ?", id).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")

	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) FindByCredential(ctx context.Context, email, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByCredential")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "No user matched credential lookup").
			String("username", username).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	start := time.Now()
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.
		Preload("Followers").
		Preload("Following").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("target_user_id", user.ID).
		Log()

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Update")

	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("target_user_id", user.ID).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Unscoped().Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("target_user_id", id).
		Log()

	return nil
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, verificationToken string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByVerificationToken")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("email_verification_token = ?", verificationToken).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "MarkEmailVerified")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_email_verified":        true,
			"email_verification_token": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Email verified").
		Uint("target_user_id", id).
		Log()

	return nil
}

func (r *userRepository) AddRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "AddRefreshToken")

	entry := model.RefreshToken{UserID: userID, Token: refreshToken}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Uint("target_user_id", userID).
			Err(err).
			Log()
		return err
	}

	return nil
}

// RotateRefreshToken is the single conditional update backing token
// rotation: remove old, insert new, same transaction. Concurrent refresh
// attempts with the same old token race on the DELETE; exactly one wins.
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID uint, oldToken, newToken string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RotateRefreshToken")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND token = ?", userID, oldToken).
			Delete(&model.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(&model.RefreshToken{UserID: userID, Token: newToken}).Error
	})

	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token rotation failed").
			Uint("target_user_id", userID).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *userRepository) RemoveRefreshToken(ctx context.Context, refreshToken string) (uint, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "RemoveRefreshToken")

	var entry model.RefreshToken
	result := r.db.WithContext(ctx).Where("token = ?", refreshToken).First(&entry)
	if result.Error != nil {
		return 0, result.Error
	}

	if err := r.db.WithContext(ctx).Delete(&model.RefreshToken{}, entry.ID).Error; err != nil {
		return 0, err
	}

	return entry.UserID, nil
}

func (r *userRepository) HasRefreshToken(ctx context.Context, userID uint, refreshToken string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "HasRefreshToken")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_id = ? AND token = ?", userID, refreshToken).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Follow inserts one edge row; both directions of the relation read from
// it. Returns false without error when the edge already exists.
func (r *userRepository) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Follow")

	followed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("user_follows").
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.Exec(
			"INSERT INTO user_follows (follower_id, following_id) VALUES (?, ?)",
			followerID, followingID,
		).Error; err != nil {
			return err
		}
		followed = true
		return nil
	})

	return followed, err
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followingID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Unfollow")

	return r.db.WithContext(ctx).Exec(
		"DELETE FROM user_follows WHERE follower_id = ? AND following_id = ?",
		followerID, followingID,
	).Error
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountByStatus(ctx context.Context, active bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("is_active = ?", active).
		Count(&count).Error
	return count, err
}
