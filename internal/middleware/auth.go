package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/token"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
)

// AuthMiddleware guards protected routes with bearer access tokens.
type AuthMiddleware struct {
	codec *token.Codec
}

func NewAuthMiddleware(codec *token.Codec) *AuthMiddleware {
	return &AuthMiddleware{codec: codec}
}

// RequireAuth authenticates the request. A missing or malformed
// Authorization header is 401; a token that fails verification, or a
// verified token for an unverified email, is 403. Issuer and audience
// mismatches are 401: the token is well-formed but was never meant for
// this API.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithOperation(c.Request.Context(), "middleware", "RequireAuth")

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authorization header required", nil))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("invalid authorization header format", nil))
			c.Abort()
			return
		}

		claims, err := m.codec.VerifyAccess(parts[1])
		if err != nil {
			logger.WarnWithContext(ctx, "Access token rejected").
				String("path", c.Request.URL.Path).
				Err(err).
				Log()
			c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			c.Abort()
			return
		}

		if claims.Issuer != constants.TokenIssuer || !containsAudience(claims.Audience, constants.TokenAudience) {
			logger.WarnWithContext(ctx, "Access token from foreign issuer or audience").
				String("issuer", claims.Issuer).
				Log()
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("token not issued for this service", nil))
			c.Abort()
			return
		}

		if !claims.IsEmailVerified {
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(apperrors.ErrEmailNotVerified.Message, nil))
			c.Abort()
			return
		}

		c.Set(constants.ContextClaimsKey, claims)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireRole layers a role check on top of RequireAuth. Order matters:
// without claims in the context this rejects with 401.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("authentication required", nil))
			c.Abort()
			return
		}

		if claims.Role != role {
			ctx := ctxutil.WithOperation(c.Request.Context(), "middleware", "RequireRole")
			logger.WarnWithContext(ctx, "Role check failed").
				String("required_role", role).
				String("actual_role", claims.Role).
				Log()
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(apperrors.ErrForbidden.Message, nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentClaims returns the claims stored by RequireAuth.
func CurrentClaims(c *gin.Context) (*token.Claims, bool) {
	val, exists := c.Get(constants.ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*token.Claims)
	return claims, ok
}

func containsAudience(audience []string, want string) bool {
	for _, aud := range audience {
		if aud == want {
			return true
		}
	}
	return false
}
