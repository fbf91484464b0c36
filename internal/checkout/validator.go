package checkout

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

const msgExpired = "expiration cannot be before the current month"

// ValidationError carries exactly one message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message attached to name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// Validator checks checkout forms. It is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

type Option func(*Validator)

// WithClock overrides the clock used by the year and expiration rules.
func WithClock(now func() time.Time) Option {
	return func(cv *Validator) { cv.now = now }
}

func NewValidator(opts ...Option) *Validator {
	cv := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(cv)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("digits", validateDigits)
	_ = v.RegisterValidation("month", validateMonth)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("not_past_year", func(fl validator.FieldLevel) bool {
		year, err := strconv.Atoi(fl.Field().String())
		return err == nil && year >= cv.now().Year()
	})
	cv.v = v
	return cv
}

// Validate returns either a Submission or a *ValidationError, never both.
// The form is normalized first.
func (cv *Validator) Validate(f Form) (*Submission, error) {
	f = f.Normalize()

	fields := map[string]string{}
	if err := cv.v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate checkout form: %w", err)
		}
		for _, fe := range verrs {
			fields[fe.Field()] = cv.message(fe)
		}
	}

	// cross-field rule, only once month and year are individually valid
	_, badMonth := fields[FieldExpMonth]
	_, badYear := fields[FieldExpYear]
	if !badMonth && !badYear && cv.expired(f.ExpMonth, f.ExpYear) {
		fields[FieldExpMonth] = msgExpired
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse validated amount: %w", err)
	}
	return &Submission{
		Amount:        amount,
		Currency:      transaction.Currency(f.Currency),
		CustomerName:  f.CustomerName,
		CustomerEmail: f.CustomerEmail,
		Card: transaction.Card{
			Number:   f.CardNumber,
			ExpMonth: f.ExpMonth,
			ExpYear:  f.ExpYear,
			CVC:      f.CVC,
		},
	}, nil
}

// expired reports whether (year, month) is strictly before the current month.
func (cv *Validator) expired(month, year string) bool {
	m, err := strconv.Atoi(month)
	if err != nil {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	now := cv.now()
	exp := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return exp.Before(current)
}

func (cv *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "name is required"
	case "email":
		return "invalid email address"
	case "positive_amount":
		return "amount must be greater than zero"
	case "oneof":
		return "must select MXN or USD"
	case "month":
		return "invalid month (must be between 1 and 12)"
	case "not_past_year":
		return fmt.Sprintf("year must be greater than or equal to %d", cv.now().Year())
	case "digits":
		switch fe.Field() {
		case FieldCardNumber:
			return "must be exactly 16 digits"
		case FieldExpMonth:
			return "must be a number from 1 to 12"
		case FieldExpYear:
			return "must be a valid 4-digit year"
		case FieldCVC:
			return "CVC must be exactly 3 numeric digits"
		}
	}
	return "invalid value"
}

// validateDigits accepts only ASCII digits. The param is an exact length
// ("16") or an inclusive range ("1-2").
func validateDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	lo, hi, ok := parseLengthParam(fl.Param())
	if !ok || len(s) < lo || len(s) > hi {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseLengthParam(p string) (int, int, bool) {
	lo, hi, isRange := strings.Cut(p, "-")
	minLen, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, false
	}
	if !isRange {
		return minLen, minLen, true
	}
	maxLen, err := strconv.Atoi(hi)
	if err != nil || maxLen < minLen {
		return 0, 0, false
	}
	return minLen, maxLen, true
}

func validateMonth(fl validator.FieldLevel) bool {
	m, err := strconv.Atoi(fl.Field().String())
	return err == nil && m >= 1 && m <= 12
}

// validatePositiveAmount coerces the input to a number; "" and anything that
// does not parse count as not positive. The check runs on the float64 that
// goes on the wire, so exponents that underflow to 0 or overflow to Inf fail.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil || !d.IsPositive() {
		return false
	}
	f := d.InexactFloat64()
	return f > 0 && !math.IsInf(f, 0)
}
