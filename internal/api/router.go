package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/debtbook/internal/api/handler"
	"github.com/rustyeddy/debtbook/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h *handler.DebtorHandler) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Notices())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		debtors := v1.Group("/debtors")
		{
			debtors.GET("", h.List)
			debtors.POST("", h.Add)
			debtors.DELETE("", h.Clear)
			debtors.GET("/:id", h.Get)
			debtors.PATCH("/:id", h.Rename)
			debtors.DELETE("/:id", h.Delete)
			debtors.POST("/:id/adjust", h.Adjust)
			debtors.POST("/:id/custom", h.BeginCustom)
			debtors.PUT("/:id/custom", h.SubmitCustom)
		}

		v1.DELETE("/custom", h.CancelCustom)
		v1.PUT("/search", h.Search)
		v1.POST("/escape", h.Escape)
		v1.GET("/total", h.Total)
		v1.POST("/import", h.Import)
		v1.GET("/export", h.Export)
		v1.POST("/save", h.Save)
		v1.POST("/composing", h.Composing)
		v1.POST("/hidden", h.Hidden)
		v1.GET("/status", h.Status)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
