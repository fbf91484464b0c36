package transaction

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		status Status
		tone   Tone
		icon   bool
	}{
		{StatusCompleted, ToneSuccess, true},
		{StatusFailed, ToneError, true},
		{StatusPending, ToneWarning, false},
		{Status("refunded"), ToneWarning, false},
		{Status(""), ToneWarning, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := BadgeFor(tt.status)
			assert.Equal(t, tt.tone, b.Tone)
			assert.Equal(t, tt.icon, b.Icon != "")
			assert.NotEmpty(t, b.Label)
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestCreatedTime(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		ok     bool
		expect time.Time
	}{
		{"rfc3339 with zone", "2025-03-04T10:11:12Z", true, time.Date(2025, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"naive with micros", "2025-03-04T10:11:12.123456", true, time.Date(2025, 3, 4, 10, 11, 12, 123456000, time.UTC)},
		{"date only", "2025-03-04", true, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"garbage", "yesterday", false, time.Time{}},
		{"empty", "", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := Transaction{CreatedAt: tt.raw}.CreatedTime()
			require.Equal(t, tt.ok, ok)
			assert.True(t, tt.expect.Equal(ts), "got %s", ts)
		})
	}
}

func TestRawAmount(t *testing.T) {
	assert.Equal(t, "100", Transaction{Amount: 100}.RawAmount())
	assert.Equal(t, "12.5", Transaction{Amount: 12.5}.RawAmount())
	assert.Equal(t, "0.01", Transaction{Amount: 0.01}.RawAmount())
}

func TestTransactionDecodesServicePayload(t *testing.T) {
	body := `{
		"id": "4b0e2c1a-6c1e-4b33-9d2c-0b1f8f6f2a10",
		"amount": 99.99,
		"currency": "USD",
		"customer_email": "ana@x.com",
		"customer_name": "Ana",
		"status": "completed",
		"blumonpay_transaction_id": null,
		"created_at": "2025-01-02T03:04:05.000001"
	}`
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(body), &tx))
	assert.Equal(t, CurrencyUSD, tx.Currency)
	assert.Equal(t, StatusCompleted, tx.Status)
	assert.Empty(t, tx.BlumonpayTransactionID)
	assert.Equal(t, 99.99, tx.Amount)
}
