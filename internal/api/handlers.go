package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/checkout"
	"github.com/AgentTarik/payments-dashboard/internal/client"
	"github.com/AgentTarik/payments-dashboard/internal/transaction"
	"github.com/AgentTarik/payments-dashboard/internal/view"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

// TransactionAPI is the remote transaction service as seen by the pages.
type TransactionAPI interface {
	CreateTransaction(ctx context.Context, payload transaction.CreateRequest) (*transaction.Transaction, error)
	FetchTransactions(ctx context.Context) ([]transaction.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*transaction.Transaction, error)
}

type EventPublisher interface {
	TransactionSubmitted(ctx context.Context, tx transaction.Transaction) error
}

type Handlers struct {
	Log      *zap.Logger
	API      TransactionAPI
	Checkout *checkout.Validator
	Pages    *Renderer
	// Events is nil when Kafka is not configured.
	Events EventPublisher
}

// health handler
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"kafka_enabled": h.Events != nil,
	})
}

// Dashboard renders the transaction list. ?status= selects the filter and
// ?page= the 1-based page; both fall back to their defaults when invalid.
func (h *Handlers) Dashboard(c *gin.Context) {
	v := view.NewListView()
	v.SetFilter(view.ParseFilter(c.Query("status")))
	if n, err := strconv.Atoi(c.Query("page")); err == nil {
		v.SetPage(n)
	}

	v.Load(c.Request.Context(), h.API.FetchTransactions)

	page := DashboardPage{
		Shell:   Shell{Title: "Transactions", Nav: "dashboard"},
		Phase:   v.Phase.String(),
		Error:   v.Message(),
		Filter:  v.Filter,
		Filters: filterLinks(v.Filter),
		Page:    v.Current(),
	}
	status := http.StatusOK
	if v.Phase == view.PhaseError {
		status = http.StatusBadGateway
	}
	h.Pages.HTML(c, status, pageDashboard, page)
}

func filterLinks(active view.Filter) []FilterLink {
	out := make([]FilterLink, 0, len(view.Filters))
	for _, f := range view.Filters {
		out = append(out, FilterLink{Value: f, Label: filterLabels[f], Active: f == active})
	}
	return out
}

func (h *Handlers) CheckoutForm(c *gin.Context) {
	h.renderCheckout(c, http.StatusOK, checkout.Form{Currency: string(checkout.DefaultCurrency)}, nil, "")
}

// SubmitCheckout validates the form, submits it once and redirects to the
// confirmation page. Invalid input and submission failures re-render the
// form with the values the operator typed.
func (h *Handlers) SubmitCheckout(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBind(&form); err != nil {
		h.Log.Warn("unreadable checkout form", zap.Error(err))
	}

	sub, err := h.Checkout.Validate(form)
	if err != nil {
		var verr *checkout.ValidationError
		if !errors.As(err, &verr) {
			h.Log.Error("checkout validation", zap.Error(err))
			h.renderCheckout(c, http.StatusInternalServerError, form.Normalize(), nil, client.MsgPaymentFailed)
			return
		}
		telemetry.IncCheckoutValidationFailures(verr.Fields)
		h.renderCheckout(c, http.StatusUnprocessableEntity, form.Normalize(), verr.Fields, "")
		return
	}

	tx, err := h.API.CreateTransaction(c.Request.Context(), sub.Request())
	if err != nil {
		telemetry.IncPaymentsSubmitted(false)
		notice := client.MsgPaymentFailed
		var perr *client.PaymentSubmissionError
		if errors.As(err, &perr) {
			notice = perr.Error()
		}
		h.renderCheckout(c, http.StatusBadGateway, form.Normalize(), nil, notice)
		return
	}
	telemetry.IncPaymentsSubmitted(true)
	h.Log.Info("transaction submitted",
		zap.String("tx_id", tx.ID),
		zap.String("status", string(tx.Status)),
	)

	if h.Events != nil {
		// failures are logged by the publisher and never block the operator
		_ = h.Events.TransactionSubmitted(c.Request.Context(), *tx)
	}

	c.Redirect(http.StatusSeeOther, "/confirm?id="+url.QueryEscape(tx.ID))
}

func (h *Handlers) renderCheckout(c *gin.Context, status int, form checkout.Form, errs map[string]string, notice string) {
	h.Pages.HTML(c, status, pageCheckout, CheckoutPage{
		Shell:      Shell{Title: "New payment", Nav: "checkout"},
		Form:       form,
		Errors:     errs,
		Notice:     notice,
		Currencies: transaction.Currencies,
	})
}

func (h *Handlers) Confirm(c *gin.Context) {
	h.detail(c, pageConfirm, "Payment confirmation", c.Query("id"))
}

func (h *Handlers) Detail(c *gin.Context) {
	h.detail(c, pageDetail, "Transaction detail", c.Param("id"))
}

func (h *Handlers) detail(c *gin.Context, page, title, id string) {
	v := view.NewDetailView(id)
	v.Load(c.Request.Context(), h.API.GetTransactionByID)

	status := http.StatusOK
	switch {
	case v.Phase != view.PhaseError:
	case errors.Is(v.Err, view.ErrMissingID):
		status = http.StatusBadRequest
	case errors.Is(v.Err, client.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusBadGateway
	}

	h.Pages.HTML(c, status, page, DetailPage{
		Shell:       Shell{Title: title, Nav: "dashboard"},
		Phase:       v.Phase.String(),
		Error:       v.Message(),
		Transaction: v.Transaction,
		Badge:       v.Badge(),
	})
}
