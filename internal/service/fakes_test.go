package service

import (
	"context"
	"strings"
	"time"

	"github.com/surdiana/todoapi/internal/dto"
	"github.com/surdiana/todoapi/internal/model"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users   map[uint]*model.User
	tokens  map[uint][]string
	follows map[uint]map[uint]bool // followerID -> followingID set
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uint]*model.User),
		tokens:  make(map[uint][]string),
		follows: make(map[uint]map[uint]bool),
		nextID:  1,
	}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetWithRelations(ctx context.Context, id uint) (*model.User, error) {
	user, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Followers = nil
	user.Following = nil
	for followerID, set := range f.follows {
		if set[id] {
			follower := f.users[followerID]
			user.Followers = append(user.Followers, follower)
		}
	}
	for followingID := range f.follows[id] {
		user.Following = append(user.Following, f.users[followingID])
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByCredential(_ context.Context, email, username string) (*model.User, error) {
	for _, user := range f.users {
		if (email != "" && user.Email == email) || (username != "" && user.Username == username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetAll(_ context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	var all []model.User
	for _, user := range f.users {
		if search == "" || strings.Contains(user.Username, search) {
			all = append(all, *user)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	delete(f.tokens, id)
	return nil
}

func (f *fakeUserRepo) FindByVerificationToken(_ context.Context, verificationToken string) (*model.User, error) {
	for _, user := range f.users {
		if user.EmailVerificationToken != nil && *user.EmailVerificationToken == verificationToken {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, id uint) error {
	user, ok := f.users[id]
	if !ok || user.EmailVerificationToken == nil {
		return gorm.ErrRecordNotFound
	}
	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	return nil
}

func (f *fakeUserRepo) AddRefreshToken(_ context.Context, userID uint, refreshToken string) error {
	f.tokens[userID] = append(f.tokens[userID], refreshToken)
	return nil
}

func (f *fakeUserRepo) RotateRefreshToken(_ context.Context, userID uint, oldToken, newToken string) error {
	active := f.tokens[userID]
	for i, tok := range active {
		if tok == oldToken {
			f.tokens[userID] = append(append(active[:i:i], active[i+1:]...), newToken)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) RemoveRefreshToken(_ context.Context, refreshToken string) (uint, error) {
	for userID, active := range f.tokens {
		for i, tok := range active {
			if tok == refreshToken {
				f.tokens[userID] = append(active[:i:i], active[i+1:]...)
				return userID, nil
			}
		}
	}
	return 0, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) HasRefreshToken(_ context.Context, userID uint, refreshToken string) (bool, error) {
	for _, tok := range f.tokens[userID] {
		if tok == refreshToken {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Follow(_ context.Context, followerID, followingID uint) (bool, error) {
	set, ok := f.follows[followerID]
	if !ok {
		set = make(map[uint]bool)
		f.follows[followerID] = set
	}
	if set[followingID] {
		return false, nil
	}
	set[followingID] = true
	return true, nil
}

func (f *fakeUserRepo) Unfollow(_ context.Context, followerID, followingID uint) error {
	delete(f.follows[followerID], followingID)
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) CountByStatus(_ context.Context, active bool) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.IsActive == active {
			count++
		}
	}
	return count, nil
}

// fakeTodoRepo is an in-memory TodoRepository.
type fakeTodoRepo struct {
	todos  map[uint]*model.Todo
	nextID uint
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{
		todos:  make(map[uint]*model.Todo),
		nextID: 1,
	}
}

func (f *fakeTodoRepo) matches(todo *model.Todo, filter dto.TodoFilter) bool {
	if filter.Completed != nil && todo.Completed != *filter.Completed {
		return false
	}
	if filter.Priority != "" && todo.Priority != filter.Priority {
		return false
	}
	if filter.Search != "" && !strings.Contains(todo.Text, filter.Search) {
		return false
	}
	return true
}

func (f *fakeTodoRepo) GetAll(_ context.Context, ownerID uint, filter dto.TodoFilter, limit, offset int) ([]model.Todo, int64, error) {
	var all []model.Todo
	for _, todo := range f.todos {
		if todo.UserID == ownerID && f.matches(todo, filter) {
			all = append(all, *todo)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeTodoRepo) GetAllByOwner(_ context.Context, ownerID uint) ([]model.Todo, error) {
	var all []model.Todo
	for _, todo := range f.todos {
		if todo.UserID == ownerID {
			all = append(all, *todo)
		}
	}
	return all, nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, ownerID, id uint) (*model.Todo, error) {
	todo, ok := f.todos[id]
	if !ok || todo.UserID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *todo
	return &copied, nil
}

func (f *fakeTodoRepo) Create(_ context.Context, todo *model.Todo) error {
	todo.ID = f.nextID
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	f.nextID++
	copied := *todo
	f.todos[todo.ID] = &copied
	return nil
}

func (f *fakeTodoRepo) Update(_ context.Context, todo *model.Todo) error {
	if _, ok := f.todos[todo.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *todo
	f.todos[todo.ID] = &copied
	return nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, ownerID, id uint) error {
	todo, ok := f.todos[id]
	if !ok || todo.UserID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeTodoRepo) CountByCompleted(_ context.Context, completed bool) (int64, error) {
	var count int64
	for _, todo := range f.todos {
		if todo.Completed == completed {
			count++
		}
	}
	return count, nil
}

func (f *fakeTodoRepo) CountByPriority(_ context.Context, priority string) (int64, error) {
	var count int64
	for _, todo := range f.todos {
		if todo.Priority == priority {
			count++
		}
	}
	return count, nil
}

func (f *fakeTodoRepo) CountOverdue(_ context.Context) (int64, error) {
	var count int64
	now := time.Now()
	for _, todo := range f.todos {
		if !todo.Completed && todo.DueDate != nil && todo.DueDate.Before(now) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTodoRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.todos)), nil
}
