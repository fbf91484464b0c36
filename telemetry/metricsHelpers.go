package telemetry

import "time"

// ObserveUpstream records one call to the transaction API.
func ObserveUpstream(operation, outcome string, took time.Duration) {
	upstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	upstreamRequestDurationSeconds.WithLabelValues(operation).Observe(took.Seconds())
}

// Sets the breaker state gauge (0=closed, 1=open, 2=half-open).
func SetUpstreamBreakerState(v int) {
	upstreamBreakerState.Set(float64(v))
}

// Increments the rejection counter once per invalid field.
func IncCheckoutValidationFailures(fields map[string]string) {
	for field := range fields {
		checkoutValidationFailuresTotal.WithLabelValues(field).Inc()
	}
}

func IncPaymentsSubmitted(accepted bool) {
	lbl := "rejected"
	if accepted {
		lbl = "accepted"
	}
	paymentsSubmittedTotal.WithLabelValues(lbl).Inc()
}

func IncSandboxSettled(status string) {
	sandboxTransactionsSettledTotal.WithLabelValues(status).Inc()
}

// Sets the current queue size gauge.
func SetSandboxQueueCurrent(n int) {
	sandboxQueueCurrent.Set(float64(n))
}
