package app

import (
	"greenquest_backend/internal/config"
	"greenquest_backend/internal/middleware"
	"greenquest_backend/internal/model"
	"greenquest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAuthenticatedRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/challenges/active", c.challenge.ListActive)
		public.GET("/challenges/:id", c.challenge.Get)
		public.GET("/challenges/:id/leaderboard", c.challenge.Leaderboard)
	}
}

func (a *App) registerAuthenticatedRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)

	group.POST("/challenges", c.challenge.Create)
	group.POST("/challenges/:id/end", c.challenge.End)
	group.POST("/challenges/:id/join", c.challenge.Join)
	group.PUT("/challenges/:id/progress", c.challenge.UpdateProgress)
	group.GET("/participations/mine", c.challenge.ListMine)
	group.GET("/creator/challenges", c.challenge.ListCreated)

	group.POST("/challenges/:id/submissions", c.submission.Submit)
	group.GET("/challenges/:id/submissions", c.submission.ListForChallenge)
	group.GET("/challenges/:id/submissions/mine", c.submission.ListMine)
	group.POST("/submissions/photos", c.submission.UploadPhoto)
	group.POST("/submissions/:id/verify", c.submission.Verify)

	group.GET("/notifications/mine", c.notification.ListMine)
	group.POST("/notifications/:id/read", c.notification.MarkRead)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.CapabilityMiddleware(model.ActionManageUsers))
	{
		admin.GET("/users", c.user.List)
		admin.PUT("/users/:id/role", c.user.SetRole)
		admin.POST("/users/:id/disable", c.user.Disable)
	}
}
