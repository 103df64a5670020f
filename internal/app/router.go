package app

import (
	"quiz_portal_backend/docs"
	"quiz_portal_backend/internal/middleware"
	"quiz_portal_backend/pkg/logger"
	"quiz_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 1. 代理（浏览器端绕过 CORS）
	a.registerProxyRoutes(api, c)

	// 2. 公共路由
	a.registerPublicRoutes(api, c)

	// 3. 管理员相关接口
	a.registerAdminRoutes(api, c)
}

func (a *App) registerProxyRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/proxy", c.proxy.Forward)
	api.POST("/proxy", c.proxy.Forward)
	api.PUT("/proxy", c.proxy.Forward)
	api.PATCH("/proxy", c.proxy.Forward)
	api.DELETE("/proxy", c.proxy.Forward)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	categories := api.Group("/categories")
	{
		categories.GET("", c.category.List)
		categories.GET("/:slug", c.category.Get)
		categories.GET("/:slug/questions", c.category.Questions)
	}

	questions := api.Group("/questions")
	{
		questions.GET("/:id", c.question.Get)
		questions.POST("/:id/check", c.question.Check)
	}

	content := api.Group("/content")
	{
		content.GET("/homepage", c.content.HomePage)
		content.GET("/test-locations", c.content.TestLocations)
		content.GET("/test-locations/:id", c.content.TestLocation)
		content.GET("/screenshots", c.content.Screenshots)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	admin := api.Group("/admin")
	admin.POST("/login", c.admin.Login)

	authorized := admin.Group("")
	authorized.Use(middleware.AdminAuth(a.services.auth, logger.Named("auth")))
	{
		authorized.POST("/categories", c.admin.CreateCategory)
		authorized.PATCH("/categories/:slug", c.admin.UpdateCategory)
		authorized.DELETE("/categories/:slug", c.admin.DeleteCategory)
		authorized.POST("/categories/:slug/export", c.admin.ExportCategory)

		authorized.POST("/questions", c.admin.CreateQuestion)
		authorized.PATCH("/questions/:id", c.admin.UpdateQuestion)
		authorized.DELETE("/questions/:id", c.admin.DeleteQuestion)
	}
}
