package client

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/telemetry"
)

// newBreaker trips after at least 3 calls in the window with 60% or more
// failures. Only transport errors and 5xx count as failures. An open breaker
// fails calls immediately; it never retries them.
func newBreaker(log *zap.Logger) *gobreaker.CircuitBreaker {
	telemetry.SetUpstreamBreakerState(stateValue(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "transaction-api",
		MaxRequests: 3,                // allowed in half-open state
		Interval:    15 * time.Second, // window to track failures
		Timeout:     30 * time.Second, // open -> half-open
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.SetUpstreamBreakerState(stateValue(to))
			log.Warn("circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// 0=closed, 1=open, 2=half-open
func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
