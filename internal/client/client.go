package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

const (
	opCreate = "create"
	opList   = "list"
	opGet    = "get"
)

// TokenSource supplies the bearer token attached to every call.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the transaction API. Every operation is a single request:
// no retries, no deduplication of in-flight calls.
type Client struct {
	http    *resty.Client
	log     *zap.Logger
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker
}

type Option func(*Client)

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithCircuitBreaker makes calls fail fast while the API keeps failing.
func WithCircuitBreaker() Option {
	return func(c *Client) { c.breaker = newBreaker(c.log) }
}

func New(baseURL string, timeout time.Duration, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json").
			SetLogger(log.Sugar()),
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTransaction submits a validated checkout. It is not idempotent.
func (c *Client) CreateTransaction(ctx context.Context, payload transaction.CreateRequest) (*transaction.Transaction, error) {
	resp, err := c.do(ctx, opCreate, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post("/transactions")
	})
	if err != nil {
		msg := MsgPaymentFailed
		var se *StatusError
		if errors.As(err, &se) {
			if detail := se.Detail(); detail != "" {
				msg = detail
			}
		}
		c.log.Error("error creating transaction",
			zap.Float64("amount", payload.Amount),
			zap.String("currency", string(payload.Currency)),
			zap.Error(err),
		)
		return nil, &PaymentSubmissionError{Message: msg, Err: err}
	}

	var tx transaction.Transaction
	if err := c.decode(opCreate, resp, &tx); err != nil {
		return nil, &PaymentSubmissionError{Message: MsgPaymentFailed, Err: err}
	}
	if tx.ID == "" {
		err := errors.New("created transaction has no id")
		c.log.Error("error creating transaction", zap.Error(err))
		return nil, &PaymentSubmissionError{Message: MsgPaymentFailed, Err: err}
	}
	return &tx, nil
}

// FetchTransactions returns the full list; pagination happens locally.
func (c *Client) FetchTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	resp, err := c.do(ctx, opList, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/transactions")
	})
	if err != nil {
		c.log.Error("error fetching transactions", zap.Error(err))
		return nil, &ListLoadError{Err: err}
	}

	var txs []transaction.Transaction
	if err := c.decode(opList, resp, &txs); err != nil {
		return nil, &ListLoadError{Err: err}
	}
	if txs == nil {
		txs = []transaction.Transaction{}
	}
	return txs, nil
}

func (c *Client) GetTransactionByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if id == "" {
		return nil, &DetailLoadError{Err: errors.New("empty transaction id")}
	}

	resp, err := c.do(ctx, opGet, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", id).Get("/transactions/{id}")
	})
	if err != nil {
		c.log.Error("error loading transaction", zap.String("tx_id", id), zap.Error(err))
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, &DetailLoadError{ID: id, Err: err}
	}

	var tx transaction.Transaction
	if err := c.decode(opGet, resp, &tx); err != nil {
		return nil, &DetailLoadError{ID: id, Err: err}
	}
	return &tx, nil
}

// do runs one request through the optional breaker and records metrics. Any
// non-2xx answer comes back as *StatusError; only transport errors and 5xx
// count against the breaker.
func (c *Client) do(ctx context.Context, op string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()

	req := c.http.R().SetContext(ctx)
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			telemetry.ObserveUpstream(op, "auth", time.Since(start))
			return nil, fmt.Errorf("issue service token: %w", err)
		}
		req.SetAuthToken(tok)
	}

	call := func() (interface{}, error) {
		resp, err := send(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, &StatusError{Code: resp.StatusCode(), Body: resp.Body()}
		}
		return resp, nil
	}

	var (
		out interface{}
		err error
	)
	if c.breaker != nil {
		out, err = c.breaker.Execute(call)
	} else {
		out, err = call()
	}

	resp, _ := out.(*resty.Response)
	if err == nil && resp.IsError() {
		err = &StatusError{Code: resp.StatusCode(), Body: resp.Body()}
	}
	telemetry.ObserveUpstream(op, outcome(err), time.Since(start))
	return resp, err
}

func (c *Client) decode(op string, resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		c.log.Error("malformed response from transaction API", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "breaker_open"
	}
	var se *StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusNotFound {
			return "not_found"
		}
		return "http_error"
	}
	return "network"
}
