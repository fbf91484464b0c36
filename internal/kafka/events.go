package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

const (
	EventTransactionSubmitted = "transaction_submitted"
	eventVersion              = 1
	publishTimeout            = 2 * time.Second
)

// TransactionSubmitted is emitted after the API accepted a checkout. It
// carries no card data and no customer details.
type TransactionSubmitted struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	Version       int       `json:"version"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

type Emitter struct {
	pub publisher
	v   *Validator
	log *zap.Logger
	now func() time.Time
}

func NewEmitter(p *Producer, v *Validator, log *zap.Logger) *Emitter {
	return newEmitter(p, v, log)
}

func newEmitter(p publisher, v *Validator, log *zap.Logger) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{pub: p, v: v, log: log, now: time.Now}
}

func (e *Emitter) newEvent(tx transaction.Transaction) TransactionSubmitted {
	return TransactionSubmitted{
		EventID:       uuid.NewString(),
		EventType:     EventTransactionSubmitted,
		Version:       eventVersion,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Currency:      string(tx.Currency),
		Status:        string(tx.Status),
		OccurredAt:    e.now().UTC(),
	}
}

// TransactionSubmitted validates and publishes the event for tx. Errors are
// logged and returned; callers are free to ignore them.
func (e *Emitter) TransactionSubmitted(ctx context.Context, tx transaction.Transaction) error {
	ev := e.newEvent(tx)
	if err := e.v.Validate(ev); err != nil {
		e.log.Error("event failed schema validation",
			zap.String("event_type", ev.EventType),
			zap.String("tx_id", tx.ID),
			zap.Error(err),
		)
		return fmt.Errorf("validate %s: %w", ev.EventType, err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := e.pub.Publish(ctx, tx.ID, ev); err != nil {
		e.log.Warn("failed to publish event",
			zap.String("event_type", ev.EventType),
			zap.String("tx_id", tx.ID),
			zap.Error(err),
		)
		return fmt.Errorf("publish %s: %w", ev.EventType, err)
	}
	e.log.Debug("event published", zap.String("event_id", ev.EventID), zap.String("tx_id", tx.ID))
	return nil
}
