package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/model"
	"github.com/surdiana/todoapi/internal/repository"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
	"github.com/surdiana/todoapi/pkg/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	statisticsCacheKey = "admin:statistics"
	statisticsCacheTTL = 30 * time.Second
)

// UserService backs the admin user management surface and the
// self-service profile endpoints.
type UserService struct {
	users repository.UserRepository
	todos repository.TodoRepository
	cache *redis.Client
}

func NewUserService(users repository.UserRepository, todos repository.TodoRepository, cache *redis.Client) *UserService {
	return &UserService{
		users: users,
		todos: todos,
		cache: cache,
	}
}

func (s *UserService) GetAll(ctx context.Context, params *constants.PaginationParams) ([]dto.UserResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetAll")

	users, total, err := s.users.GetAll(ctx, params.Limit, params.Offset, params.Search)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	user, err := s.users.GetWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// CreateUser is the admin path: the account comes up verified and active,
// with no verification token to redeem.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateUser")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	role := req.Role
	if role == "" {
		role = constants.RoleUser
	}

	user := &model.User{
		Email:           email,
		Username:        strings.TrimSpace(req.Username),
		Password:        string(hashedPassword),
		Role:            role,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if req.Profile != nil {
		user.FirstName = strings.TrimSpace(req.Profile.FirstName)
		user.LastName = strings.TrimSpace(req.Profile.LastName)
		user.Bio = req.Profile.Bio
	}

	if err := s.users.Create(ctx, user); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User created by admin").
		Uint("target_user_id", user.ID).
		String("role", user.Role).
		Log()

	s.invalidateStatistics(ctx)

	return toUserResponse(user), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateUser")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.ErrEmailExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			user.Email = email
		}
	}
	if req.Username != "" {
		user.Username = strings.TrimSpace(req.Username)
	}
	if req.Profile != nil {
		user.FirstName = strings.TrimSpace(req.Profile.FirstName)
		user.LastName = strings.TrimSpace(req.Profile.LastName)
		user.Bio = req.Profile.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User updated").
		Uint("target_user_id", user.ID).
		Log()

	return toUserResponse(user), nil
}

// DeleteUser removes the account. Refresh tokens go with it through the
// cascade, so every outstanding session dies at the next rotation.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteUser")

	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("target_user_id", id).
		Log()

	s.invalidateStatistics(ctx)

	return nil
}

// ChangeRole takes effect on already-issued access tokens only at their
// next rotation, since claims are rebuilt from store state then.
func (s *UserService) ChangeRole(ctx context.Context, id uint, role string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangeRole")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User role changed").
		Uint("target_user_id", user.ID).
		String("role", role).
		Log()

	s.invalidateStatistics(ctx)

	return toUserResponse(user), nil
}

func (s *UserService) ChangeStatus(ctx context.Context, id uint, isActive bool) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangeStatus")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user.IsActive = isActive
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User status changed").
		Uint("target_user_id", user.ID).
		Bool("is_active", isActive).
		Log()

	s.invalidateStatistics(ctx)

	return toUserResponse(user), nil
}

// Follow is idempotent: following a user twice leaves a single edge.
func (s *UserService) Follow(ctx context.Context, followerID, followingID uint) (*dto.FollowResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Follow")

	if followerID == followingID {
		return nil, apperrors.ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	followed, err := s.users.Follow(ctx, followerID, followingID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	target, err := s.users.GetWithRelations(ctx, followingID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Follow edge ensured").
		Uint("target_user_id", followingID).
		Bool("created", followed).
		Log()

	return &dto.FollowResponse{
		Followed:       true,
		FollowersCount: len(target.Followers),
		User:           *toUserResponse(target),
	}, nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followingID uint) (*dto.FollowResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Unfollow")

	if followerID == followingID {
		return nil, apperrors.ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.Unfollow(ctx, followerID, followingID); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	target, err := s.users.GetWithRelations(ctx, followingID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.FollowResponse{
		Followed:       false,
		FollowersCount: len(target.Followers),
		User:           *toUserResponse(target),
	}, nil
}

// GetUserTodos is the admin view over another user's todos.
func (s *UserService) GetUserTodos(ctx context.Context, userID uint) ([]dto.TodoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetUserTodos")

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	todos, err := s.todos.GetAllByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toTodoResponse(&todos[i]))
	}

	return responses, nil
}

// Statistics aggregates user and todo counts, served from a short-lived
// cache so repeated admin dashboard polls do not hammer the database.
func (s *UserService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Statistics")

	if s.cache != nil {
		var cached dto.StatisticsResponse
		hit, err := s.cache.GetJSON(ctx, statisticsCacheKey, &cached)
		if err != nil {
			logger.WarnWithContext(ctx, "Statistics cache read failed, falling back to database").
				Err(err).
				Log()
		} else if hit {
			return &cached, nil
		}
	}

	stats := &dto.StatisticsResponse{GeneratedAt: time.Now().UTC()}

	var err error
	if stats.Users.ByRole.Admin, err = s.users.CountByRole(ctx, constants.RoleAdmin); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Users.ByRole.User, err = s.users.CountByRole(ctx, constants.RoleUser); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Users.ByStatus.Active, err = s.users.CountByStatus(ctx, true); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Users.ByStatus.Inactive, err = s.users.CountByStatus(ctx, false); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Todos.Completed, err = s.todos.CountByCompleted(ctx, true); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Todos.Pending, err = s.todos.CountByCompleted(ctx, false); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if stats.Todos.Overdue, err = s.todos.CountOverdue(ctx); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statisticsCacheKey, stats, statisticsCacheTTL); err != nil {
			logger.WarnWithContext(ctx, "Statistics cache write failed").
				Err(err).
				Log()
		}
	}

	return stats, nil
}

// GetMe returns the caller's own record with relations loaded.
func (s *UserService) GetMe(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetMe")

	user, err := s.users.GetWithRelations(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// UpdateMe lets the caller edit their own profile block. Email, role and
// status are out of reach here.
func (s *UserService) UpdateMe(ctx context.Context, userID uint, req *dto.UpdateMeRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateMe")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user.FirstName = strings.TrimSpace(req.Profile.FirstName)
	user.LastName = strings.TrimSpace(req.Profile.LastName)
	user.Bio = req.Profile.Bio

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Profile updated").
		Uint("target_user_id", user.ID).
		Log()

	return toUserResponse(user), nil
}

func (s *UserService) invalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statisticsCacheKey); err != nil {
		logger.WarnWithContext(ctx, "Statistics cache invalidation failed").
			Err(err).
			Log()
	}
}
