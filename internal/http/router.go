// Package http exposes the prediction use case over a JSON API.
package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/tide-clock/internal/adapter/cache"
	"go.ngs.io/tide-clock/internal/metrics"
	"go.ngs.io/tide-clock/internal/usecase"
)

// SetupRouter creates and configures the Gin router. An empty
// allowedOrigins allows every origin.
func SetupRouter(predictionUC *usecase.PredictionUseCase, models *cache.ModelCache, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), requestMetrics())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(predictionUC, models)

	v1 := router.Group("/v1")
	tides := v1.Group("/tides")
	tides.GET("/day", handler.GetDay)
	v1.GET("/corrections", handler.GetCorrections)
	v1.GET("/constituents", handler.GetConstituents)

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
