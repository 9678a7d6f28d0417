package app

import (
	"mindwell_backend/internal/config"
	"mindwell_backend/internal/middleware"
	"mindwell_backend/internal/model"
	"mindwell_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/questions", c.question.GetQuestions)
		authGroup.GET("/questions/categories", c.question.GetCategories)

		assessments := authGroup.Group("/assessments")
		{
			assessments.POST("/start", c.assessment.Start)
			assessments.GET("/:id", c.assessment.Get)
			assessments.POST("/:id/answers", c.assessment.Answer)
			assessments.POST("/:id/advance", c.assessment.Advance)
			assessments.POST("/:id/retreat", c.assessment.Retreat)
			assessments.POST("/:id/complete", c.assessment.Complete)
			assessments.POST("/:id/abandon", c.assessment.Abandon)
		}

		authGroup.GET("/history", c.history.List)
		authGroup.GET("/history/stats", c.history.Stats)
		authGroup.PATCH("/history/:id/notes", c.history.UpdateNotes)
		authGroup.DELETE("/history/:id", c.history.Delete)

		authGroup.POST("/sync", c.sync.SyncNow)

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/analytics/summary", c.analytics.Summary)
			admin.GET("/analytics/risk-levels", c.analytics.RiskLevels)
		}
	}
}
