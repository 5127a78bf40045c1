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

func TestFollowRejectsSelf(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeTodoRepo(), nil)
	alice := seedUser(t, repo, "alice@example.com", "alice", "password123", true)

	_, err := svc.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfFollow)

	_, err = svc.Unfollow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfFollow)
}

func TestFollowIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeTodoRepo(), nil)
	alice := seedUser(t, repo, "alice@example.com", "alice", "password123", true)
	bob := seedUser(t, repo, "bob@example.com", "bob", "password123", true)

	resp, err := svc.Follow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, resp.Followed)
	assert.Equal(t, 1, resp.FollowersCount)

	resp, err = svc.Follow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FollowersCount, "double follow must not add a second edge")

	resp, err = svc.Unfollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, resp.Followed)
	assert.Equal(t, 0, resp.FollowersCount)
}

func TestFollowUnknownTarget(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeTodoRepo(), nil)
	alice := seedUser(t, repo, "alice@example.com", "alice", "password123", true)

	_, err := svc.Follow(context.Background(), alice.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestChangeRoleAndStatus(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeTodoRepo(), nil)
	alice := seedUser(t, repo, "alice@example.com", "alice", "password123", true)

	resp, err := svc.ChangeRole(context.Background(), alice.ID, constants.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, resp.Role)

	resp, err = svc.ChangeStatus(context.Background(), alice.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = svc.ChangeRole(context.Background(), 999, constants.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateMeTouchesOnlyProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeTodoRepo(), nil)
	alice := seedUser(t, repo, "alice@example.com", "alice", "password123", true)

	resp, err := svc.UpdateMe(context.Background(), alice.ID, &dto.UpdateMeRequest{
		Profile: &dto.ProfileInput{FirstName: "Alice", LastName: "Smith", Bio: "hello"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.Profile.FirstName)
	assert.Equal(t, "Smith", resp.Profile.LastName)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, constants.RoleUser, resp.Role)
}

func TestStatisticsAggregation(t *testing.T) {
	userRepo := newFakeUserRepo()
	todoRepo := newFakeTodoRepo()
	svc := NewUserService(userRepo, todoRepo, nil)
	ctx := context.Background()

	admin := seedUser(t, userRepo, "admin@example.com", "admin", "password123", true)
	_, err := svc.ChangeRole(ctx, admin.ID, constants.RoleAdmin)
	require.NoError(t, err)
	inactive := seedUser(t, userRepo, "bob@example.com", "bob", "password123", true)
	_, err = svc.ChangeStatus(ctx, inactive.ID, false)
	require.NoError(t, err)

	todoSvc := NewTodoService(todoRepo)
	done, err := todoSvc.Create(ctx, admin.ID, &dto.CreateTodoRequest{Text: "done"})
	require.NoError(t, err)
	completed := true
	_, err = todoSvc.Patch(ctx, admin.ID, done.ID, &dto.PatchTodoRequest{Completed: &completed})
	require.NoError(t, err)
	_, err = todoSvc.Create(ctx, admin.ID, &dto.CreateTodoRequest{Text: "pending"})
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Users.ByRole.Admin)
	assert.Equal(t, int64(1), stats.Users.ByRole.User)
	assert.Equal(t, int64(1), stats.Users.ByStatus.Active)
	assert.Equal(t, int64(1), stats.Users.ByStatus.Inactive)
	assert.Equal(t, int64(1), stats.Todos.Completed)
	assert.Equal(t, int64(1), stats.Todos.Pending)
	assert.False(t, stats.GeneratedAt.IsZero())
}
