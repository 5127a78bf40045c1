package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.authHandler.Register)
		auth.GET("/verify-email", r.authHandler.VerifyEmail)
		auth.POST("/resend-verification", r.authHandler.ResendVerification)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.Refresh)

		// Logout authenticates by refresh token ownership, not by access
		// token, so an expired access token cannot strand a session.
		auth.POST("/logout", r.authHandler.Logout)
	}
}
