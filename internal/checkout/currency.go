package checkout

import "github.com/AgentTarik/payments-dashboard/internal/transaction"

// DefaultCurrency is preselected on an empty checkout form.
const DefaultCurrency = transaction.CurrencyMXN

// Symbol is the prefix shown next to the amount label. It is display only.
func Symbol(c transaction.Currency) string {
	if c == transaction.CurrencyUSD {
		return "$"
	}
	return "MX$"
}
