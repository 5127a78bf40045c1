package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/dto"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/service"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
)

type AuthHandler struct {
	registration *service.RegistrationService
	sessions     *service.SessionService
}

func NewAuthHandler(registration *service.RegistrationService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		sessions:     sessions,
	}
}

// Register handles new account creation
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid register request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	user, err := h.registration.Register(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Registration failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(user))
}

// VerifyEmail redeems the emailed verification token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "VerifyEmail")

	verificationToken := c.Query("token")
	if verificationToken == "" {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Verification token required", nil))
		return
	}

	if err := h.registration.VerifyEmail(ctx, verificationToken); err != nil {
		logger.WarnWithContext(ctx, "Email verification failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Verification failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("email verified"))
}

// ResendVerification reissues tokens for an account that has not finished
// verifying yet
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ResendVerification")

	var req dto.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	pair, err := h.registration.ResendVerification(ctx, req.Email)
	if err != nil {
		logger.WarnWithContext(ctx, "Resend verification failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Resend verification failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(pair))
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}
	if req.Email == "" && req.Username == "" {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", "email or username required"))
		return
	}

	pair, err := h.sessions.Login(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("username", req.Username).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Authentication failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(pair))
}

// Refresh rotates the presented refresh token for a fresh pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Refresh")

	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	pair, err := h.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Token refresh failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(pair))
}

// Logout revokes the presented refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Logout")

	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	if err := h.sessions.Logout(ctx, req.RefreshToken); err != nil {
		logger.WarnWithContext(ctx, "Logout failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Logout failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.Status(http.StatusNoContent)
}
