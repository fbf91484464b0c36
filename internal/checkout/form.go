package checkout

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

// Form field names, shared by the HTML form, the binding tags and the
// ValidationError map.
const (
	FieldCustomerName  = "customer_name"
	FieldCustomerEmail = "customer_email"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldCardNumber    = "card_number"
	FieldExpMonth      = "exp_month"
	FieldExpYear       = "exp_year"
	FieldCVC           = "cvc"
)

// Form is the raw checkout input as posted by the browser.
type Form struct {
	CustomerName  string `form:"customer_name"  validate:"required"`
	CustomerEmail string `form:"customer_email" validate:"email"`
	Amount        string `form:"amount"         validate:"positive_amount"`
	Currency      string `form:"currency"       validate:"oneof=MXN USD"`
	CardNumber    string `form:"card_number"    validate:"digits=16"`
	ExpMonth      string `form:"exp_month"      validate:"digits=1-2,month"`
	ExpYear       string `form:"exp_year"       validate:"digits=4,not_past_year"`
	CVC           string `form:"cvc"            validate:"digits=3"`
}

// Normalize trims text inputs and strips non-digits from the card inputs, the
// same way the browser does on every keystroke.
func (f Form) Normalize() Form {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.CustomerEmail = strings.TrimSpace(f.CustomerEmail)
	f.Amount = strings.TrimSpace(f.Amount)
	f.Currency = strings.TrimSpace(f.Currency)
	f.CardNumber = StripNonDigits(f.CardNumber)
	f.ExpMonth = StripNonDigits(f.ExpMonth)
	f.ExpYear = StripNonDigits(f.ExpYear)
	f.CVC = StripNonDigits(f.CVC)
	return f
}

// StripNonDigits drops every rune that is not an ASCII digit. It does not
// enforce any length.
func StripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
}

// Submission is a checkout that passed validation. It lives only for the
// duration of one create call.
type Submission struct {
	Amount        decimal.Decimal
	Currency      transaction.Currency
	CustomerName  string
	CustomerEmail string
	Card          transaction.Card
}

// Request builds the creation payload sent to the transaction API.
func (s Submission) Request() transaction.CreateRequest {
	return transaction.CreateRequest{
		Amount:        s.Amount.InexactFloat64(),
		Currency:      s.Currency,
		CustomerEmail: s.CustomerEmail,
		CustomerName:  s.CustomerName,
		Card:          s.Card,
	}
}
