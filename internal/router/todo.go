package router

import (
	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/internal/constants"
)

func (r *Router) todoRoutes(api *gin.RouterGroup) {
	protected := api.Group("/protected")
	protected.Use(r.authMw.RequireAuth())
	{
		todos := protected.Group("/todos")
		{
			// Stats aggregates across all owners, so it stays admin-only.
			// Registered before /:id so gin does not treat "stats" as an id.
			todos.GET("/stats", r.authMw.RequireRole(constants.RoleAdmin), r.todoHandler.Stats)

			todos.GET("", r.todoHandler.List)
			todos.POST("", r.todoHandler.Create)
			todos.GET("/:id", r.todoHandler.Get)
			todos.PUT("/:id", r.todoHandler.Update)
			todos.PATCH("/:id", r.todoHandler.Patch)
			todos.DELETE("/:id", r.todoHandler.Delete)
		}
	}
}
