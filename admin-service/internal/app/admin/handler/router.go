package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogadmin/pkg/logger"
	"catalogadmin/pkg/metrics"
)

const serviceName = "admin-service"

// SetupRoutes настраивает все маршруты Admin Service с использованием Gin
func SetupRoutes(adminHandler *AdminHandler, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// CORS для слоя отображения
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := router.Group("/admin")
	{
		admin.GET("/state", adminHandler.GetState)
		admin.GET("/notifications", adminHandler.GetNotifications)

		// Фильтр и строка запроса
		admin.PUT("/filter", adminHandler.SetNameFilter)
		admin.PUT("/filter/page", adminHandler.SetPage)
		admin.PUT("/location", adminHandler.Navigate)

		// Действия со строками списка
		admin.POST("/products/:id/edit", adminHandler.OpenEdit)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

		// Диалог создания/редактирования
		dialog := admin.Group("/dialog")
		{
			dialog.POST("", adminHandler.OpenDialog)
			dialog.DELETE("", adminHandler.CloseDialog)
			dialog.PUT("/fields", adminHandler.SetField)
			dialog.POST("/stock", adminHandler.AddStockRow)
			dialog.PUT("/stock/:index", adminHandler.SetStockRow)
			dialog.DELETE("/stock/:index", adminHandler.RemoveStockRow)
			dialog.POST("/categories/toggle", adminHandler.ToggleCategory)
			dialog.POST("/image", adminHandler.UploadImage)
			dialog.PUT("/image", adminHandler.SetImage)
			dialog.POST("/submit", adminHandler.Submit)
			dialog.PUT("/new-category", adminHandler.SetNewCategoryName)
			dialog.POST("/new-category", adminHandler.SubmitNewCategory)
		}
	}

	return router
}
