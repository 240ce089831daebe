package routes

import (
	"oselya/handlers"
	"oselya/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the webhook and service endpoints.
func RegisterRoutes(r *gin.Engine, h *handlers.TelegramHandler, admin *handlers.AdminHandler) {
	r.GET("/healthz", handlers.HealthHandler)

	api := r.Group("/telegram")
	api.Use(middleware.RateLimitMiddleware())
	{
		api.POST("/webhook", h.WebhookHandler)
	}

	adm := r.Group("/admin")
	adm.Use(middleware.RateLimitMiddleware())
	{
		adm.GET("/reservations/:date", admin.ListReservationsByDateHandler)
	}
}
