package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/surdiana/todoapi/config"
	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/model"
	"github.com/surdiana/todoapi/internal/token"
	"gorm.io/gorm"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func newTestCodec() *token.Codec {
	return token.NewCodec(config.TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func newTestRouter(mw *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{mw.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func accessTokenFor(t *testing.T, codec *token.Codec, role string, verified bool) string {
	t.Helper()
	signed, err := codec.IssueAccess(&model.User{
		Model:           gorm.Model{ID: 7},
		Username:        "alice",
		Role:            role,
		IsEmailVerified: verified,
	})
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	return signed
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r := newTestRouter(NewAuthMiddleware(newTestCodec()))

	if w := doRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	r := newTestRouter(NewAuthMiddleware(newTestCodec()))

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "justatoken"} {
		if w := doRequest(r, header); w.Code != http.StatusUnauthorized {
			t.Errorf("Header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestRequireAuthGarbageToken(t *testing.T) {
	r := newTestRouter(NewAuthMiddleware(newTestCodec()))

	if w := doRequest(r, "Bearer not.a.jwt"); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", w.Code)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expiredCodec := token.NewCodec(config.TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     -time.Minute,
		RefreshTTL:    time.Hour,
	})
	r := newTestRouter(NewAuthMiddleware(newTestCodec()))

	signed := accessTokenFor(t, expiredCodec, constants.RoleUser, true)
	if w := doRequest(r, "Bearer "+signed); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", w.Code)
	}
}

func TestRequireAuthUnverifiedEmail(t *testing.T) {
	codec := newTestCodec()
	r := newTestRouter(NewAuthMiddleware(codec))

	signed := accessTokenFor(t, codec, constants.RoleUser, false)
	if w := doRequest(r, "Bearer "+signed); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", w.Code)
	}
}

// A token signed with our secret but stamped by another application must
// not be accepted.
func TestRequireAuthForeignIssuer(t *testing.T) {
	r := newTestRouter(NewAuthMiddleware(newTestCodec()))

	now := time.Now()
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		UserID:          7,
		Name:            "alice",
		Role:            constants.RoleUser,
		IsEmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-app",
			Audience:  jwt.ClaimStrings{"other-app-users"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
	})
	signed, err := foreign.SignedString([]byte(testAccessSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if w := doRequest(r, "Bearer "+signed); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuthValidTokenReachesHandler(t *testing.T) {
	codec := newTestCodec()
	r := newTestRouter(NewAuthMiddleware(codec))

	signed := accessTokenFor(t, codec, constants.RoleUser, true)
	w := doRequest(r, "Bearer "+signed)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d, body %s", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	codec := newTestCodec()
	mw := NewAuthMiddleware(codec)
	r := newTestRouter(mw, mw.RequireRole(constants.RoleAdmin))

	userToken := accessTokenFor(t, codec, constants.RoleUser, true)
	if w := doRequest(r, "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Errorf("Role user: expected 403, got %d", w.Code)
	}

	adminToken := accessTokenFor(t, codec, constants.RoleAdmin, true)
	if w := doRequest(r, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("Role admin: expected 200, got %d", w.Code)
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := NewAuthMiddleware(newTestCodec())

	// RequireRole mounted without RequireAuth in front finds no claims.
	r := gin.New()
	r.GET("/admin", mw.RequireRole(constants.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}
