package router

import (
	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
)

func (r *Router) adminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(r.authMw.RequireAuth(), r.authMw.RequireRole(constants.RoleAdmin))
	{
		admin.GET("/statistics", r.userHandler.Statistics)

		users := admin.Group("/users")
		{
			users.GET("", r.userHandler.GetAll)
			users.POST("", r.userHandler.Create)
			users.GET("/:id", r.userHandler.GetByID)
			users.PUT("/:id", r.userHandler.Update)
			users.PATCH("/:id", r.userHandler.Update)
			users.DELETE("/:id", r.userHandler.Delete)

			users.PUT("/:id/role", r.userHandler.ChangeRole)
			users.PUT("/:id/status", r.userHandler.ChangeStatus)

			users.POST("/:id/follow", r.userHandler.Follow)
			users.POST("/:id/unfollow", r.userHandler.Unfollow)

			users.GET("/:id/todos", r.userHandler.GetUserTodos)
		}
	}
}
