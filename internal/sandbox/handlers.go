package sandbox

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/config"
	"github.com/AgentTarik/payments-dashboard/internal/kafka"
	"github.com/AgentTarik/payments-dashboard/internal/storage"
	"github.com/AgentTarik/payments-dashboard/internal/transaction"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

const msgNotFound = "Transaction not found"

type Handlers struct {
	Log       *zap.Logger
	TxRepo    storage.TxRepo
	Processor Processor
	V         *validator.Validate
	Worker    *Worker
	// Async stores authorized transactions as pending and leaves them to Worker.
	Async  bool
	DBPing func(ctx context.Context) error
	Kafka  config.Kafka
	Now    func() time.Time
}

// NewHandlers wires the default processor, validator and clock.
func NewHandlers(log *zap.Logger, repo storage.TxRepo, worker *Worker, async bool) *Handlers {
	h := &Handlers{
		Log:       log,
		TxRepo:    repo,
		Processor: SimulatedProcessor{},
		Worker:    worker,
		Async:     async,
		Now:       time.Now,
	}
	h.V = newValidator(func() time.Time { return h.Now() })
	return h
}

func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	db := "memory"
	if h.DBPing != nil {
		db = "ok"
		if err := h.DBPing(ctx); err != nil {
			db = "down"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"db":            db,
		"kafka_enabled": h.Kafka.Enabled(),
	})
}

// CreateTransaction godoc
// @Summary      Charge a card and record the transaction
// @Description  Cards ending in 0002 are declined by the simulated provider.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateTransactionRequest  true  "Transaction payload"
// @Success      200      {object}  transaction.Transaction
// @Failure      422      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *Handlers) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: []Issue{{
			Loc: []string{"body"}, Msg: "invalid JSON body", Type: "value_error.json",
		}}})
		return
	}
	if err := h.V.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: issues(err)})
		return
	}
	if len(req.Card.ExpMonth) == 1 {
		req.Card.ExpMonth = "0" + req.Card.ExpMonth
	}

	ctx := c.Request.Context()
	t := storage.Transaction{
		ID:            uuid.New(),
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CardLast4:     req.Card.Number[len(req.Card.Number)-4:],
		Status:        string(transaction.StatusPending),
		CreatedAt:     h.Now().UTC(),
	}

	ref, err := h.Processor.Authorize(ctx, NewCharge(req))
	if err != nil {
		h.Log.Error("payment declined by provider",
			zap.String("tx_id", t.ID.String()),
			zap.String("card_last4", t.CardLast4),
			zap.Error(err),
		)
		if errors.Is(err, ErrDeclined) {
			t.Status = string(transaction.StatusFailed)
			if err := h.TxRepo.UpsertTx(ctx, t); err != nil {
				h.Log.Error("failed to persist declined tx", zap.Error(err))
			} else {
				telemetry.IncSandboxSettled(t.Status)
			}
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Detail: ErrDeclined.Error()})
		return
	}

	if h.Async {
		if err := h.TxRepo.UpsertTx(ctx, t); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to persist"})
			return
		}
		if h.Worker.Enqueue(t, ref) {
			c.JSON(http.StatusOK, t.View())
			return
		}
		// queue full: settle now instead of leaving the row pending forever
	}

	settled, err := h.Worker.Settle(ctx, t, ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to persist"})
		return
	}
	c.JSON(http.StatusOK, settled.View())
}

// ListTransactions godoc
// @Summary      List transactions, newest first
// @Tags         transactions
// @Produce      json
// @Success      200  {array}   transaction.Transaction
// @Security     BearerAuth
// @Router       /transactions [get]
func (h *Handlers) ListTransactions(c *gin.Context) {
	txs, err := h.TxRepo.ListTx(c.Request.Context())
	if err != nil {
		h.Log.Error("failed to list transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to list"})
		return
	}
	out := make([]transaction.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.View())
	}
	c.JSON(http.StatusOK, out)
}

// GetTransaction godoc
// @Summary      Get one transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      string  true  "Transaction ID (UUID)"
// @Success      200  {object}  transaction.Transaction
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id} [get]
func (h *Handlers) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: msgNotFound})
		return
	}
	t, err := h.TxRepo.GetTx(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrTxNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Detail: msgNotFound})
			return
		}
		h.Log.Error("failed to load transaction", zap.String("tx_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to load"})
		return
	}
	c.JSON(http.StatusOK, t.View())
}

// Events shows the submission events the dashboard published, read from the
// start of the topic.
func (h *Handlers) Events(c *gin.Context) {
	if !h.Kafka.Enabled() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: "Kafka not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 1000 {
		limit = 10
	}
	timeoutMS, _ := strconv.Atoi(c.DefaultQuery("timeout_ms", "1500"))
	if timeoutMS < 100 {
		timeoutMS = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	msgs, err := kafka.Tail(ctx, h.Kafka.BrokerList(), h.Kafka.Topic, limit)
	if err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"topic":    h.Kafka.Topic,
			"received": len(msgs),
			"error":    err.Error(),
			"messages": msgs,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"topic":    h.Kafka.Topic,
		"count":    len(msgs),
		"messages": msgs,
	})
}
