package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/todoapi/config"
	"github.com/surdiana/todoapi/internal/handler"
	"github.com/surdiana/todoapi/internal/middleware"
)

type Router struct {
	authHandler   *handler.AuthHandler
	meHandler     *handler.MeHandler
	userHandler   *handler.UserHandler
	todoHandler   *handler.TodoHandler
	healthHandler *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	me *handler.MeHandler,
	user *handler.UserHandler,
	todo *handler.TodoHandler,
	health *handler.HealthHandler,

	authMw *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		meHandler:     me,
		userHandler:   user,
		todoHandler:   todo,
		healthHandler: health,

		authMw: authMw,
		Config: cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestLoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTimeout(r.Config.App.Timeout))
	router.Use(middleware.CORS())

	router.GET("/health", r.healthHandler.HealthCheck)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   r.Config.App.Name,
			"version":   "1.0.0",
			"timestamp": time.Now(),
		})
	})

	api := router.Group("/api")
	{
		r.authRoutes(api)
		r.meRoutes(api)
		r.adminRoutes(api)
		r.todoRoutes(api)
		r.profileRoutes(api)
	}

	return router
}

func (r *Router) meRoutes(api *gin.RouterGroup) {
	me := api.Group("/me")
	me.Use(r.authMw.RequireAuth())
	{
		me.GET("", r.meHandler.GetMe)
		me.PATCH("", r.meHandler.UpdateMe)
	}
}
