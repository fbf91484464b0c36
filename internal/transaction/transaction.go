package transaction

import (
	"strconv"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status can no longer change on the server.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
)

// Currencies is the closed set accepted by the checkout form.
var Currencies = []Currency{CurrencyMXN, CurrencyUSD}

// Transaction is the read model returned by the transaction API.
type Transaction struct {
	ID                     string   `json:"id"`
	Amount                 float64  `json:"amount"`
	Currency               Currency `json:"currency"`
	CustomerEmail          string   `json:"customer_email"`
	CustomerName           string   `json:"customer_name"`
	Status                 Status   `json:"status"`
	BlumonpayTransactionID string   `json:"blumonpay_transaction_id,omitempty"`
	CreatedAt              string   `json:"created_at"`
}

// Card data as sent to the creation endpoint.
type Card struct {
	Number   string `json:"number"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVC      string `json:"cvc"`
}

// CreateRequest is the body of POST /transactions.
type CreateRequest struct {
	Amount        float64  `json:"amount"`
	Currency      Currency `json:"currency"`
	CustomerEmail string   `json:"customer_email"`
	CustomerName  string   `json:"customer_name"`
	Card          Card     `json:"card"`
}

// created_at comes from the service with or without a zone offset.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// CreatedTime parses CreatedAt for display. The bool is false when the value
// matches none of the known layouts.
func (t Transaction) CreatedTime() (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, t.CreatedAt); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// RawAmount renders the amount exactly as received, without currency symbol
// or fixed decimals (100 -> "100", 12.5 -> "12.5").
func (t Transaction) RawAmount() string {
	return strconv.FormatFloat(t.Amount, 'f', -1, 64)
}
