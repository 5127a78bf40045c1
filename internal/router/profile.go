package router

import (
	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
)

// profileRoutes is the self-service account surface. Mutations are scoped
// to the caller's own account; only delete widens to admins, and the
// directory-wide operations live under /admin.
func (r *Router) profileRoutes(api *gin.RouterGroup) {
	profile := api.Group("/profile")
	profile.Use(r.authMw.RequireAuth())
	{
		users := profile.Group("/users")
		{
			users.GET("", r.userHandler.GetOwnProfile)
			users.GET("/:id", r.userHandler.GetByID)
			users.PUT("/:id", r.userHandler.UpdateProfile)
			users.PATCH("/:id", r.userHandler.UpdateProfile)
			users.DELETE("/:id", r.userHandler.DeleteProfile)

			users.POST("/:id/follow", r.authMw.RequireRole(constants.RoleAdmin), r.userHandler.Follow)
			users.POST("/:id/unfollow", r.authMw.RequireRole(constants.RoleAdmin), r.userHandler.Unfollow)
		}
	}
}
