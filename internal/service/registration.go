package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/model"
	"github.com/surdiana/todoapi/internal/repository"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegistrationService owns the register / verify-email / resend flow.
type RegistrationService struct {
	users    repository.UserRepository
	sessions *SessionService
}

func NewRegistrationService(users repository.UserRepository, sessions *SessionService) *RegistrationService {
	return &RegistrationService{
		users:    users,
		sessions: sessions,
	}
}

// generateVerificationToken returns 32 bytes of entropy, hex-encoded.
func generateVerificationToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Register creates an unverified user. The verification token is created
// exactly once here; resend does not mint a new one.
func (s *RegistrationService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	if _, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email))); err == nil {
		logger.WarnWithContext(ctx, "Registration rejected: email taken").
			String("email", req.Email).
			Log()
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	verificationToken, err := generateVerificationToken()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	role := req.Role
	if role == "" {
		role = constants.RoleUser
	}

	user := &model.User{
		Email:                  strings.ToLower(strings.TrimSpace(req.Email)),
		Username:               strings.TrimSpace(req.Username),
		Password:               string(hashedPassword),
		Role:                   role,
		IsActive:               true,
		IsEmailVerified:        false,
		EmailVerificationToken: &verificationToken,
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

	// No mailer is wired; the verification link is surfaced through the
	// debug log for development.
	logger.DebugWithContext(ctx, "Verification token issued").
		Uint("target_user_id", user.ID).
		String("verification_token", verificationToken).
		Log()

	return toUserResponse(user), nil
}

// VerifyEmail redeems a verification token. Redemption is single-use: the
// token column is cleared in the same update that sets the flag, so a
// second call with the same token finds no match.
func (s *RegistrationService) VerifyEmail(ctx context.Context, verificationToken string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyEmail")

	user, err := s.users.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Verification failed: unknown token").
				Log()
			return apperrors.ErrInvalidVerifyToken
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Email verified").
		Uint("target_user_id", user.ID).
		String("email", user.Email).
		Log()

	return nil
}

// ResendVerification reissues a token pair bound to the user's current,
// possibly still-unverified state. It deliberately does not gate on
// verification status: its purpose is to give an unverified user the
// tooling needed to finish verifying. The auth middleware keeps rejecting
// those tokens until verification completes.
func (s *RegistrationService) ResendVerification(ctx context.Context, email string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ResendVerification")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	pair, err := s.sessions.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Verification tokens reissued").
		Uint("target_user_id", user.ID).
		Bool("is_email_verified", user.IsEmailVerified).
		Log()

	return pair, nil
}
