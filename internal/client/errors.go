package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// User-facing messages. They are the Error() text of the matching error types.
const (
	MsgPaymentFailed = "payment processing failed"
	MsgListFailed    = "could not load the transaction list"
	MsgDetailFailed  = "transaction not found or failed to load"
)

// ErrNotFound is wrapped by DetailLoadError when the API answered 404.
var ErrNotFound = errors.New("transaction not found")

// PaymentSubmissionError is returned by CreateTransaction. Message is the
// server's detail when it sent one, otherwise MsgPaymentFailed.
type PaymentSubmissionError struct {
	Message string
	Err     error
}

func (e *PaymentSubmissionError) Error() string { return e.Message }
func (e *PaymentSubmissionError) Unwrap() error { return e.Err }

// ListLoadError is returned by FetchTransactions.
type ListLoadError struct {
	Err error
}

func (e *ListLoadError) Error() string { return MsgListFailed }
func (e *ListLoadError) Unwrap() error { return e.Err }

// DetailLoadError is returned by GetTransactionByID for not-found and
// transport failures alike; use errors.Is(err, ErrNotFound) to tell them apart.
type DetailLoadError struct {
	ID  string
	Err error
}

func (e *DetailLoadError) Error() string { return MsgDetailFailed }
func (e *DetailLoadError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer from the transaction API.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transaction API returned status %d", e.Code)
}

// Detail extracts {"detail": "..."} from the body. Anything else, including
// the list-of-issues detail sent on request validation errors, yields "".
func (e *StatusError) Detail() string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
