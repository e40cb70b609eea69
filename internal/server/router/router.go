package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. A nil gatherer leaves
// /metrics unrouted.
func New(handler *handlers.StationHandler, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/waste-types", handler.ListWasteTypes)
		api.PUT("/waste-types/sort", handler.SetSortMode)
		api.PUT("/waste-types/order", handler.ReorderWasteTypes)
		api.POST("/waste-types/:id/select", handler.SelectWasteType)
		api.POST("/waste-types/:id/move", handler.MoveWasteType)
		api.DELETE("/selection", handler.ClearSelection)

		api.PUT("/weight/unit", handler.SetWeightUnit)
		api.PUT("/weight/input", handler.SetWeightInput)
		api.POST("/weight/lock", handler.ToggleWeightLock)

		api.PUT("/label/size", handler.SetLabelSize)
		api.PUT("/mode", handler.SetMode)
		api.PUT("/backfill/date", handler.SetBackfillDate)
		api.GET("/preview", handler.Preview)
		api.POST("/print", handler.Print)

		api.GET("/devices", handler.Devices)
		api.GET("/history", handler.History)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
