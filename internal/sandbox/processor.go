package sandbox

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclineSuffix marks test cards the simulated provider always declines.
const DeclineSuffix = "0002"

var ErrDeclined = errors.New("payment processing failed with the provider")

// Charge is what the provider receives. Amounts travel in minor units.
type Charge struct {
	AmountMinor int64
	Currency    string
	Card        CardRequest
}

func NewCharge(req CreateTransactionRequest) Charge {
	return Charge{
		AmountMinor: decimal.NewFromFloat(req.Amount).Shift(2).Round(0).IntPart(),
		Currency:    strings.ToUpper(req.Currency),
		Card:        req.Card,
	}
}

// Processor authorizes a charge and returns the provider reference.
type Processor interface {
	Authorize(ctx context.Context, ch Charge) (string, error)
}

type SimulatedProcessor struct{}

func (SimulatedProcessor) Authorize(ctx context.Context, ch Charge) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ch.AmountMinor <= 0 || strings.HasSuffix(ch.Card.Number, DeclineSuffix) {
		return "", ErrDeclined
	}
	return "bp_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16], nil
}
