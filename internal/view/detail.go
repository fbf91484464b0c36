package view

import (
	"context"
	"errors"
	"strings"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

var (
	ErrMissingID = errors.New("missing transaction id")
	// ErrNoTransaction is shown when the API answered without a transaction.
	ErrNoTransaction = errors.New("transaction not found or failed to load")
)

type DetailFetcher func(ctx context.Context, id string) (*transaction.Transaction, error)

// DetailView backs both the detail and the confirmation screens.
type DetailView struct {
	ID          string
	Phase       Phase
	Err         error
	Transaction *transaction.Transaction
}

func NewDetailView(id string) *DetailView {
	return &DetailView{ID: strings.TrimSpace(id), Phase: PhaseLoading}
}

// Load fetches the transaction once. Without an id no request is made.
func (v *DetailView) Load(ctx context.Context, fetch DetailFetcher) {
	v.Phase = PhaseLoading
	if v.ID == "" {
		v.fail(ErrMissingID)
		return
	}
	tx, err := fetch(ctx, v.ID)
	if err != nil {
		v.fail(err)
		return
	}
	if tx == nil {
		v.fail(ErrNoTransaction)
		return
	}
	v.Transaction = tx
	v.Err = nil
	v.Phase = PhaseReady
}

func (v *DetailView) fail(err error) {
	v.Phase = PhaseError
	v.Err = err
	v.Transaction = nil
}

func (v *DetailView) Badge() transaction.Badge {
	if v.Transaction == nil {
		return transaction.BadgeFor("")
	}
	return transaction.BadgeFor(v.Transaction.Status)
}

func (v *DetailView) Message() string {
	if v.Err == nil {
		return ""
	}
	return v.Err.Error()
}
