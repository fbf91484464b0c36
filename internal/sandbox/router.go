package sandbox

import (
	"github.com/gin-gonic/gin"

	"github.com/AgentTarik/payments-dashboard/internal/auth"
	"github.com/AgentTarik/payments-dashboard/internal/config"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

// SetupRoutes mounts the transaction API. With a JWT secret configured the
// transaction routes require a service token.
func SetupRoutes(r *gin.Engine, h *Handlers, jwtCfg config.JWT) {
	txs := r.Group("/transactions")
	if jwtCfg.Enabled() {
		txs.Use(auth.RequireServiceToken(jwtCfg))
	}
	{
		txs.POST("", h.CreateTransaction)
		txs.GET("", h.ListTransactions)
		txs.GET("/:id", h.GetTransaction)
	}

	r.GET("/events", h.Events)
	r.GET("/health", h.Health)
	r.GET("/metrics", telemetry.MetricsHandler())
}
