package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/config"
	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/handler"
	"github.com/surdiana/todoapi/internal/middleware"
	"github.com/surdiana/todoapi/internal/model"
	"github.com/surdiana/todoapi/internal/router"
	"github.com/surdiana/todoapi/internal/service"
	"github.com/surdiana/todoapi/internal/token"
	"gorm.io/gorm"
)

// stubUserRepo backs profile-route tests with just enough store behavior
// for the account read/update/delete paths.
type stubUserRepo struct {
	users map[uint]*model.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserRepo) GetWithRelations(ctx context.Context, id uint) (*model.User, error) {
	return s.GetByID(ctx, id)
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByCredential(_ context.Context, _, _ string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetAll(_ context.Context, _, _ int, _ string) ([]model.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (s *stubUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *stubUserRepo) FindByVerificationToken(_ context.Context, _ string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) MarkEmailVerified(_ context.Context, _ uint) error { return nil }

func (s *stubUserRepo) AddRefreshToken(_ context.Context, _ uint, _ string) error { return nil }

func (s *stubUserRepo) RotateRefreshToken(_ context.Context, _ uint, _, _ string) error {
	return gorm.ErrRecordNotFound
}

func (s *stubUserRepo) RemoveRefreshToken(_ context.Context, _ string) (uint, error) {
	return 0, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) HasRefreshToken(_ context.Context, _ uint, _ string) (bool, error) {
	return false, nil
}

func (s *stubUserRepo) Follow(_ context.Context, _, _ uint) (bool, error) { return true, nil }
func (s *stubUserRepo) Unfollow(_ context.Context, _, _ uint) error       { return nil }

func (s *stubUserRepo) CountByRole(_ context.Context, _ string) (int64, error)  { return 0, nil }
func (s *stubUserRepo) CountByStatus(_ context.Context, _ bool) (int64, error)  { return 0, nil }

func newProfileTestServer(t *testing.T) (*gin.Engine, *stubUserRepo, *token.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubUserRepo{users: map[uint]*model.User{
		1: {Model: gorm.Model{ID: 1}, Email: "alice@example.com", Username: "alice", Role: constants.RoleUser, IsActive: true, IsEmailVerified: true},
		2: {Model: gorm.Model{ID: 2}, Email: "bob@example.com", Username: "bob", Role: constants.RoleUser, IsActive: true, IsEmailVerified: true},
		3: {Model: gorm.Model{ID: 3}, Email: "root@example.com", Username: "root", Role: constants.RoleAdmin, IsActive: true, IsEmailVerified: true},
	}}

	codec := token.NewCodec(config.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "todo-api-test",
			Environment: "test",
			Timeout:     30 * time.Second,
		},
	}

	sessions := service.NewSessionService(repo, codec)
	registration := service.NewRegistrationService(repo, sessions)
	users := service.NewUserService(repo, nil, nil)
	todos := service.NewTodoService(nil)

	engine := router.NewRouter(
		handler.NewAuthHandler(registration, sessions),
		handler.NewMeHandler(users),
		handler.NewUserHandler(users),
		handler.NewTodoHandler(todos),
		handler.NewHealthHandler(nil, nil),
		middleware.NewAuthMiddleware(codec),
		cfg,
	).SetupRoutes()

	return engine, repo, codec
}

func bearerFor(t *testing.T, codec *token.Codec, user *model.User) string {
	t.Helper()
	signed, err := codec.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	return "Bearer " + signed
}

func doProfileRequest(r *gin.Engine, method, path, authHeader, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", authHeader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfileDeleteOtherAccountForbidden(t *testing.T) {
	r, repo, codec := newProfileTestServer(t)
	auth := bearerFor(t, codec, repo.users[1])

	w := doProfileRequest(r, http.MethodDelete, "/api/profile/users/2", auth, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d, body %s", w.Code, w.Body.String())
	}
	if _, ok := repo.users[2]; !ok {
		t.Error("Account must survive a forbidden delete")
	}
}

func TestProfileDeleteSelf(t *testing.T) {
	r, repo, codec := newProfileTestServer(t)
	auth := bearerFor(t, codec, repo.users[1])

	w := doProfileRequest(r, http.MethodDelete, "/api/profile/users/1", auth, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d, body %s", w.Code, w.Body.String())
	}
	if _, ok := repo.users[1]; ok {
		t.Error("Self delete must remove the account")
	}
}

func TestProfileDeleteAsAdmin(t *testing.T) {
	r, repo, codec := newProfileTestServer(t)
	auth := bearerFor(t, codec, repo.users[3])

	w := doProfileRequest(r, http.MethodDelete, "/api/profile/users/2", auth, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d, body %s", w.Code, w.Body.String())
	}
	if _, ok := repo.users[2]; ok {
		t.Error("Admin delete must remove the account")
	}
}

func TestProfileUpdateOtherAccountForbidden(t *testing.T) {
	r, repo, codec := newProfileTestServer(t)
	auth := bearerFor(t, codec, repo.users[1])
	body := `{"profile":{"firstName":"Hijacked"}}`

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := doProfileRequest(r, method, "/api/profile/users/2", auth, body)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d, body %s", method, w.Code, w.Body.String())
		}
	}

	if repo.users[2].FirstName != "" {
		t.Error("Forbidden update must not touch the target account")
	}
	if repo.users[2].Email != "bob@example.com" {
		t.Error("Forbidden update must not touch the target email")
	}
}

func TestProfileUpdateSelfTouchesOnlyProfile(t *testing.T) {
	r, repo, codec := newProfileTestServer(t)
	auth := bearerFor(t, codec, repo.users[1])
	body := `{"profile":{"firstName":"Alice","bio":"hello"}}`

	w := doProfileRequest(r, http.MethodPut, "/api/profile/users/1", auth, body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d, body %s", w.Code, w.Body.String())
	}

	stored := repo.users[1]
	if stored.FirstName != "Alice" || stored.Bio != "hello" {
		t.Errorf("Profile fields not applied, got %q/%q", stored.FirstName, stored.Bio)
	}
	if stored.Email != "alice@example.com" || stored.Role != constants.RoleUser {
		t.Error("Profile update must not touch email or role")
	}
}

// The profile listing returns the caller's own account, not the user
// directory.
func TestProfileListReturnsOwnAccount(t *testing.T) {
	r, repo, codec := newProfileTestServer(t)
	auth := bearerFor(t, codec, repo.users[1])

	w := doProfileRequest(r, http.MethodGet, "/api/profile/users", auth, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Data.ID != 1 {
		t.Errorf("Expected own account (id 1), got id %d", resp.Data.ID)
	}
	if resp.Data.Email != "alice@example.com" {
		t.Errorf("Expected own email, got %q", resp.Data.Email)
	}
}
