package api

import (
	"github.com/gin-gonic/gin"

	"github.com/AgentTarik/payments-dashboard/telemetry"
)

func SetupRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/", h.Dashboard)
	r.GET("/checkout", h.CheckoutForm)
	r.POST("/checkout", h.SubmitCheckout)
	r.GET("/confirm", h.Confirm)
	r.GET("/transactions/:id", h.Detail)

	r.GET("/health", h.Health)
	r.GET("/metrics", telemetry.MetricsHandler())
}
