package service

import (
	"context"
	"errors"

	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/repository"
	"github.com/surdiana/todoapi/internal/token"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionService orchestrates login, refresh and logout against the
// credential store and the token codec.
type SessionService struct {
	users repository.UserRepository
	codec *token.Codec
}

func NewSessionService(users repository.UserRepository, codec *token.Codec) *SessionService {
	return &SessionService{
		users: users,
		codec: codec,
	}
}

// Login authenticates by email or username and issues a fresh token pair.
// The refresh token is appended to the user's active set. Login does not
// require a verified email; the auth middleware gates protected routes.
func (s *SessionService) Login(ctx context.Context, email, username, password string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	user, err := s.users.FindByCredential(ctx, email, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed: user not found").
				String("username", username).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.ErrorWithContext(ctx, "Failed to look up user for login").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// bcrypt comparison is constant-time
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.WarnWithContext(ctx, "Login failed: incorrect password").
			Uint("target_user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("target_user_id", user.ID).
		String("username", user.Username).
		Log()

	return pair, nil
}

// Refresh verifies the presented refresh token, enforces single-use
// rotation against the user's active set, and returns a fresh pair.
// A rotated-out token is rejected with Forbidden: it is a replay signal,
// and rejection is the only defensive action taken here.
func (s *SessionService) Refresh(ctx context.Context, oldRefreshToken string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	claims, err := s.codec.VerifyRefresh(oldRefreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token failed verification").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrForbidden
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Claims are rebuilt from current store state, not copied from the old
	// token, so role and verification changes propagate at rotation.
	accessToken, err := s.codec.IssueAccess(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	newRefreshToken, err := s.codec.IssueRefresh(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.RotateRefreshToken(ctx, user.ID, oldRefreshToken, newRefreshToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Rotated-out refresh token replayed").
				Uint("target_user_id", user.ID).
				Log()
			return nil, apperrors.ErrForbidden
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Refresh token rotated").
		Uint("target_user_id", user.ID).
		Log()

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout removes the refresh token from its owner's active set. Unknown
// tokens are rejected with Forbidden.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	userID, err := s.users.RemoveRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Logout with unknown refresh token").
				Log()
			return apperrors.ErrForbidden
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("target_user_id", userID).
		Log()

	return nil
}

// IssuePair loads the user and issues access+refresh tokens, appending the
// refresh token to the active set. Claims always reflect current store
// state, including an unverified email.
func (s *SessionService) IssuePair(ctx context.Context, userID uint) (*dto.TokenPairResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	accessToken, err := s.codec.IssueAccess(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue access token").
			Uint("target_user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.codec.IssueRefresh(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue refresh token").
			Uint("target_user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.AddRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
