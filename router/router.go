package router

import (
	"time"

	"github.com/marciomartinho/minhas-financas/api"
	"github.com/marciomartinho/minhas-financas/config"
	_ "github.com/marciomartinho/minhas-financas/docs"
	"github.com/marciomartinho/minhas-financas/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires the HTTP surface
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		entryHandler := api.NewEntryHandler()
		entries := v1.Group("/entries")
		{
			entries.POST("", entryHandler.Create)
			entries.GET("", entryHandler.List)
			entries.PUT("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
			entries.POST("/:id/pay", entryHandler.Pay)
			entries.POST("/:id/unpay", entryHandler.Unpay)
			entries.POST("/:id/cancel", entryHandler.Cancel)
		}

		transferHandler := api.NewTransferHandler()
		v1.POST("/transfers", transferHandler.Create)

		accountHandler := api.NewAccountHandler()
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.List)
			accounts.POST("", accountHandler.Create)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", accountHandler.Delete)
		}

		categoryHandler := api.NewCategoryHandler()
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.POST("/:id/toggle", categoryHandler.Toggle)
			categories.DELETE("/:id", categoryHandler.Delete)
			categories.GET("/:id/subcategories", categoryHandler.ListSubcategories)
			categories.POST("/:id/subcategories", categoryHandler.CreateSubcategory)
		}

		cardHandler := api.NewCardHandler()
		cards := v1.Group("/cards")
		{
			cards.GET("", cardHandler.List)
			cards.POST("", cardHandler.Create)
			cards.PUT("/:id", cardHandler.Update)
			cards.POST("/:id/toggle", cardHandler.Toggle)
			cards.DELETE("/:id", cardHandler.Delete)
			cards.GET("/:id/statement", cardHandler.Statement)
			cards.POST("/:id/statement/pay", cardHandler.PayStatement)
		}

		goalHandler := api.NewGoalHandler()
		goals := v1.Group("/goals")
		{
			goals.GET("", goalHandler.List)
			goals.POST("", goalHandler.Create)
			goals.PUT("/:id", goalHandler.Update)
			goals.POST("/:id/toggle", goalHandler.Toggle)
			goals.DELETE("/:id", goalHandler.Delete)
			goals.GET("/:id/progress", goalHandler.Progress)
			goals.POST("/:id/close", goalHandler.Close)
		}

		investmentHandler := api.NewInvestmentHandler()
		investments := v1.Group("/investments")
		{
			investments.GET("", investmentHandler.Overview)
			investments.POST("/accounts/:id/balance", investmentHandler.Revalue)
			investments.DELETE("/snapshots/:id", investmentHandler.DeleteSnapshot)
		}

		statisticsHandler := api.NewStatisticsHandler()
		statistics := v1.Group("/statistics")
		{
			statistics.GET("/summary", statisticsHandler.Summary)
			statistics.GET("/by-category", statisticsHandler.ByCategory)
		}

		exportHandler := api.NewExportHandler()
		export := v1.Group("/export")
		{
			export.GET("/csv", exportHandler.CSV)
			export.GET("/excel", exportHandler.Excel)
		}

		// external cron hits this, keep it from being hammered
		alertHandler := api.NewAlertHandler()
		v1.POST("/alerts/run", middleware.RateLimit(5, time.Minute), alertHandler.Run)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows cross-origin requests
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
