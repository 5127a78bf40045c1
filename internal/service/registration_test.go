package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
)

func newRegistrationService(repo *fakeUserRepo, t *testing.T) *RegistrationService {
	t.Helper()
	sessions := NewSessionService(repo, newTestCodec(t))
	return NewRegistrationService(repo, sessions)
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRegistrationService(repo, t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "Bob@Example.com",
		Password: "password123",
		Username: "bob",
		Profile:  &dto.ProfileInput{FirstName: "Bob"},
	})
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", resp.Email)
	assert.Equal(t, constants.RoleUser, resp.Role)
	assert.False(t, resp.IsEmailVerified)
	assert.True(t, resp.IsActive)

	stored := repo.users[resp.ID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.EmailVerificationToken)
	assert.NotEmpty(t, *stored.EmailVerificationToken)
	assert.NotEqual(t, "password123", stored.Password, "password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRegistrationService(repo, t)

	req := &dto.RegisterRequest{Email: "bob@example.com", Password: "password123", Username: "bob"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	req.Username = "bob2"
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRegistrationService(repo, t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "bob@example.com",
		Password: "password123",
		Username: "bob",
	})
	require.NoError(t, err)

	verificationToken := *repo.users[resp.ID].EmailVerificationToken

	require.NoError(t, svc.VerifyEmail(context.Background(), verificationToken))

	stored := repo.users[resp.ID]
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.EmailVerificationToken, "redeemed token must be cleared")

	// Redeeming the same token again finds no match.
	err = svc.VerifyEmail(context.Background(), verificationToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerifyToken)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRegistrationService(repo, t)

	err := svc.VerifyEmail(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerifyToken)
}

func TestResendVerificationIssuesPairWhileUnverified(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRegistrationService(repo, t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "bob@example.com",
		Password: "password123",
		Username: "bob",
	})
	require.NoError(t, err)

	originalToken := *repo.users[resp.ID].EmailVerificationToken

	pair, err := svc.ResendVerification(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	has, err := repo.HasRefreshToken(context.Background(), resp.ID, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, has)

	// The verification token stays stable across resends.
	stored := repo.users[resp.ID]
	require.NotNil(t, stored.EmailVerificationToken)
	assert.Equal(t, originalToken, *stored.EmailVerificationToken)
	assert.False(t, stored.IsEmailVerified)
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRegistrationService(repo, t)

	_, err := svc.ResendVerification(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
