package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

var ErrTxNotFound = errors.New("transaction not found")

// Transaction is the sandbox's stored row. Only the last four card digits
// are kept.
type Transaction struct {
	ID            uuid.UUID
	Amount        float64
	Currency      string
	CustomerName  string
	CustomerEmail string
	CardLast4     string
	Status        string
	ProcessorRef  string
	CreatedAt     time.Time
}

// View converts the row into the API read model.
func (t Transaction) View() transaction.Transaction {
	return transaction.Transaction{
		ID:                     t.ID.String(),
		Amount:                 t.Amount,
		Currency:               transaction.Currency(t.Currency),
		CustomerEmail:          t.CustomerEmail,
		CustomerName:           t.CustomerName,
		Status:                 transaction.Status(t.Status),
		BlumonpayTransactionID: t.ProcessorRef,
		CreatedAt:              t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type TxRepo interface {
	UpsertTx(ctx context.Context, t Transaction) error
	GetTx(ctx context.Context, id uuid.UUID) (Transaction, error)
	// ListTx returns rows newest first.
	ListTx(ctx context.Context) ([]Transaction, error)
}

// MemoryStore implements TxRepo
type MemoryStore struct {
	mu  sync.RWMutex
	txs map[uuid.UUID]Transaction
	seq map[uuid.UUID]int // insertion order, breaks CreatedAt ties
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs: make(map[uuid.UUID]Transaction),
		seq: make(map[uuid.UUID]int),
	}
}

func (s *MemoryStore) UpsertTx(_ context.Context, t Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[t.ID]; !ok {
		s.seq[t.ID] = len(s.seq)
	}
	s.txs[t.ID] = t
	return nil
}

func (s *MemoryStore) GetTx(_ context.Context, id uuid.UUID) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txs[id]
	if !ok {
		return Transaction{}, ErrTxNotFound
	}
	return t, nil
}

func (s *MemoryStore) ListTx(_ context.Context) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}
