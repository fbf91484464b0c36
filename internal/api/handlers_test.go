package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/checkout"
	"github.com/AgentTarik/payments-dashboard/internal/client"
	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

// ---- mock implementations ----

type mockAPI struct {
	createFn func(transaction.CreateRequest) (*transaction.Transaction, error)
	listFn   func() ([]transaction.Transaction, error)
	getFn    func(id string) (*transaction.Transaction, error)
	creates  int
}

func (m *mockAPI) CreateTransaction(_ context.Context, p transaction.CreateRequest) (*transaction.Transaction, error) {
	m.creates++
	if m.createFn != nil {
		return m.createFn(p)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAPI) FetchTransactions(context.Context) ([]transaction.Transaction, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAPI) GetTransactionByID(_ context.Context, id string) (*transaction.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, fmt.Errorf("not configured")
}

type mockEvents struct {
	published []transaction.Transaction
	err       error
}

func (m *mockEvents) TransactionSubmitted(_ context.Context, tx transaction.Transaction) error {
	m.published = append(m.published, tx)
	return m.err
}

// ---- helpers ----

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, api TransactionAPI, events EventPublisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	pages, err := NewRenderer()
	require.NoError(t, err)

	h := &Handlers{
		Log:      zap.NewNop(),
		API:      api,
		Checkout: checkout.NewValidator(checkout.WithClock(func() time.Time { return fixedNow })),
		Pages:    pages,
	}
	if events != nil {
		h.Events = events
	}
	r := gin.New()
	SetupRoutes(r, h)
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doPostForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTx = &transaction.Transaction{
	ID:            "tx-001",
	Amount:        100,
	Currency:      transaction.CurrencyMXN,
	CustomerEmail: "ana@x.com",
	CustomerName:  "Ana",
	Status:        transaction.StatusCompleted,
	CreatedAt:     "2026-10-19T10:00:00Z",
}

// 10 completed, 10 failed, 5 pending
func mixedList() []transaction.Transaction {
	var out []transaction.Transaction
	add := func(n int, s transaction.Status) {
		for i := 0; i < n; i++ {
			out = append(out, transaction.Transaction{
				ID:        fmt.Sprintf("%s-%02d", s, i),
				Amount:    10,
				Currency:  transaction.CurrencyUSD,
				Status:    s,
				CreatedAt: "2026-10-01T08:00:00Z",
			})
		}
	}
	add(10, transaction.StatusCompleted)
	add(10, transaction.StatusFailed)
	add(5, transaction.StatusPending)
	return out
}

func validForm() url.Values {
	return url.Values{
		"customer_name":  {"Ana"},
		"customer_email": {"ana@x.com"},
		"amount":         {"100"},
		"currency":       {"MXN"},
		"card_number":    {"4111 1111 1111 1111"},
		"exp_month":      {"12"},
		"exp_year":       {"2030"},
		"cvc":            {"123"},
	}
}

// ---- tests ----

func TestDashboard(t *testing.T) {
	api := &mockAPI{listFn: func() ([]transaction.Transaction, error) { return mixedList(), nil }}
	r := newTestRouter(t, api, nil)

	tests := []struct {
		name     string
		path     string
		rows     int
		pageText string
		hasNext  bool
		hasPrev  bool
	}{
		{"first page of all", "/", 10, "Page 1 of 3", true, false},
		{"last page of all", "/?page=3", 5, "Page 3 of 3", false, true},
		{"page beyond the end is clamped", "/?page=9", 5, "Page 3 of 3", false, true},
		{"failed filter fits one page", "/?status=failed", 10, "Page 1 of 1", false, false},
		{"page beyond the filtered results is clamped", "/?status=pending&page=2", 5, "Page 1 of 1", false, false},
		{"unknown filter means all", "/?status=refunded", 10, "Page 1 of 3", true, false},
		{"non numeric page", "/?page=abc", 10, "Page 1 of 3", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Equal(t, tt.rows, strings.Count(body, `href="/transactions/`))
			assert.Contains(t, body, tt.pageText)
			assert.Equal(t, !tt.hasNext, strings.Contains(body, `<span class="disabled">Next</span>`))
			assert.Equal(t, !tt.hasPrev, strings.Contains(body, `<span class="disabled">Previous</span>`))
		})
	}
}

func TestDashboardFilterLinksStartAtFirstPage(t *testing.T) {
	var txs []transaction.Transaction
	for i := 0; i < 25; i++ {
		txs = append(txs, transaction.Transaction{ID: fmt.Sprintf("ok-%02d", i), Amount: 1, Currency: "MXN", Status: "completed"})
	}
	for i := 0; i < 5; i++ {
		txs = append(txs, transaction.Transaction{ID: fmt.Sprintf("ko-%02d", i), Amount: 1, Currency: "MXN", Status: "failed"})
	}
	r := newTestRouter(t, &mockAPI{listFn: func() ([]transaction.Transaction, error) { return txs, nil }}, nil)

	body := doGet(r, "/?page=3").Body.String()
	require.Contains(t, body, "Page 3 of 3")
	assert.Contains(t, body, `href="/?status=completed"`)
	assert.NotContains(t, body, `href="/?status=completed&amp;page=`)

	// the completed list alone still spans three pages
	body = doGet(r, "/?status=completed").Body.String()
	assert.Contains(t, body, "Page 1 of 3")
	assert.Equal(t, 10, strings.Count(body, `href="/transactions/`))
	assert.Contains(t, body, `<span class="disabled">Previous</span>`)
	assert.NotContains(t, body, `<span class="disabled">Next</span>`)
}

func TestDashboardRowContent(t *testing.T) {
	api := &mockAPI{listFn: func() ([]transaction.Transaction, error) {
		return []transaction.Transaction{*testTx, {ID: "tx-002", Amount: 5, Currency: "USD", Status: "failed", CreatedAt: "not a date"}}, nil
	}}
	body := doGet(newTestRouter(t, api, nil), "/").Body.String()

	assert.Contains(t, body, "<td>100 MXN</td>")
	assert.Contains(t, body, "<td>5 USD</td>")
	assert.NotContains(t, body, "MX$")
	assert.Contains(t, body, "Oct 19, 2026 10:00")
	assert.Contains(t, body, "not a date")
	assert.Contains(t, body, "badge-success")
	assert.Contains(t, body, "badge-error")
}

func TestDashboardEmpty(t *testing.T) {
	api := &mockAPI{listFn: func() ([]transaction.Transaction, error) { return []transaction.Transaction{}, nil }}
	w := doGet(newTestRouter(t, api, nil), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No transactions found.")
	assert.Contains(t, w.Body.String(), "Page 1 of 1")
}

func TestDashboardFetchFailure(t *testing.T) {
	api := &mockAPI{listFn: func() ([]transaction.Transaction, error) {
		return nil, &client.ListLoadError{Err: errors.New("dial tcp: connection refused")}
	}}
	w := doGet(newTestRouter(t, api, nil), "/")

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "could not load the transaction list")
	assert.NotContains(t, body, "connection refused")
	assert.NotContains(t, body, "<table>")
}

func TestCheckoutForm(t *testing.T) {
	w := doGet(newTestRouter(t, &mockAPI{}, nil), "/checkout")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<option value="MXN" selected>`)
	assert.Contains(t, body, `MX$`)
	assert.Contains(t, body, `name="card_number"`)
}

func TestSubmitCheckout(t *testing.T) {
	t.Run("success redirects to confirmation", func(t *testing.T) {
		var got transaction.CreateRequest
		api := &mockAPI{createFn: func(p transaction.CreateRequest) (*transaction.Transaction, error) {
			got = p
			return testTx, nil
		}}
		events := &mockEvents{}
		w := doPostForm(newTestRouter(t, api, events), "/checkout", validForm())

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/confirm?id=tx-001", w.Header().Get("Location"))
		assert.Equal(t, transaction.CreateRequest{
			Amount:        100,
			Currency:      transaction.CurrencyMXN,
			CustomerEmail: "ana@x.com",
			CustomerName:  "Ana",
			Card:          transaction.Card{Number: "4111111111111111", ExpMonth: "12", ExpYear: "2030", CVC: "123"},
		}, got)
		require.Len(t, events.published, 1)
		assert.Equal(t, "tx-001", events.published[0].ID)
	})

	t.Run("event failure does not block the redirect", func(t *testing.T) {
		api := &mockAPI{createFn: func(transaction.CreateRequest) (*transaction.Transaction, error) { return testTx, nil }}
		w := doPostForm(newTestRouter(t, api, &mockEvents{err: errors.New("broker down")}), "/checkout", validForm())
		assert.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("invalid form is not submitted", func(t *testing.T) {
		api := &mockAPI{}
		form := validForm()
		form.Set("customer_name", "  ")
		form.Set("exp_month", "13")
		w := doPostForm(newTestRouter(t, api, nil), "/checkout", form)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "name is required")
		assert.Contains(t, body, "invalid month (must be between 1 and 12)")
		assert.Contains(t, body, `value="ana@x.com"`)
		assert.Zero(t, api.creates)
	})

	t.Run("expired card", func(t *testing.T) {
		api := &mockAPI{}
		form := validForm()
		form.Set("exp_month", "9")
		form.Set("exp_year", "2026")
		w := doPostForm(newTestRouter(t, api, nil), "/checkout", form)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "expiration cannot be before the current month")
		assert.Zero(t, api.creates)
	})

	t.Run("submission failure keeps the form", func(t *testing.T) {
		api := &mockAPI{createFn: func(transaction.CreateRequest) (*transaction.Transaction, error) {
			return nil, &client.PaymentSubmissionError{Message: "card declined", Err: errors.New("502")}
		}}
		w := doPostForm(newTestRouter(t, api, nil), "/checkout", validForm())

		require.Equal(t, http.StatusBadGateway, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "card declined")
		assert.Contains(t, body, `value="Ana"`)
		assert.Contains(t, body, `value="4111111111111111"`)
		assert.Equal(t, 1, api.creates)
	})

	t.Run("unexpected error uses the generic message", func(t *testing.T) {
		api := &mockAPI{createFn: func(transaction.CreateRequest) (*transaction.Transaction, error) {
			return nil, errors.New("boom")
		}}
		w := doPostForm(newTestRouter(t, api, nil), "/checkout", validForm())
		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), client.MsgPaymentFailed)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}

func TestConfirm(t *testing.T) {
	t.Run("shows raw amount and currency", func(t *testing.T) {
		api := &mockAPI{getFn: func(id string) (*transaction.Transaction, error) {
			assert.Equal(t, "tx-001", id)
			return testTx, nil
		}}
		w := doGet(newTestRouter(t, api, nil), "/confirm?id=tx-001")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "100 MXN")
		assert.NotContains(t, body, "MX$100")
		assert.Contains(t, body, "Approved")
	})

	t.Run("missing id", func(t *testing.T) {
		api := &mockAPI{getFn: func(string) (*transaction.Transaction, error) {
			t.Fatal("no request expected")
			return nil, nil
		}}
		w := doGet(newTestRouter(t, api, nil), "/confirm")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing transaction id")
	})
}

func TestDetail(t *testing.T) {
	tests := []struct {
		name   string
		getFn  func(string) (*transaction.Transaction, error)
		status int
		text   string
	}{
		{
			name:   "found",
			getFn:  func(string) (*transaction.Transaction, error) { return testTx, nil },
			status: http.StatusOK,
			text:   "<dd>100 MXN</dd>",
		},
		{
			name: "not found",
			getFn: func(id string) (*transaction.Transaction, error) {
				return nil, &client.DetailLoadError{ID: id, Err: fmt.Errorf("%w: status 404", client.ErrNotFound)}
			},
			status: http.StatusNotFound,
			text:   client.MsgDetailFailed,
		},
		{
			name: "network failure shows the same message",
			getFn: func(id string) (*transaction.Transaction, error) {
				return nil, &client.DetailLoadError{ID: id, Err: errors.New("i/o timeout")}
			},
			status: http.StatusBadGateway,
			text:   client.MsgDetailFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(newTestRouter(t, &mockAPI{getFn: tt.getFn}, nil), "/transactions/tx-001")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.text)
			assert.NotContains(t, w.Body.String(), "i/o timeout")
		})
	}
}

func TestHealth(t *testing.T) {
	w := doGet(newTestRouter(t, &mockAPI{}, &mockEvents{}), "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","kafka_enabled":true}`, w.Body.String())
}
