package sandbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/storage"
	"github.com/AgentTarik/payments-dashboard/internal/transaction"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

// Worker settles pending transactions after a fixed delay.
type Worker struct {
	log   *zap.Logger
	repo  storage.TxRepo
	ch    chan settlement
	delay time.Duration // simulates provider settlement time
}

type settlement struct {
	tx  storage.Transaction
	ref string
}

func NewWorker(log *zap.Logger, repo storage.TxRepo, queueSize int, delay time.Duration) *Worker {
	return &Worker{
		log:   log,
		repo:  repo,
		ch:    make(chan settlement, queueSize),
		delay: delay,
	}
}

// Enqueue schedules an authorized transaction for settlement under the
// provider reference ref. It reports false when the queue is full.
func (w *Worker) Enqueue(t storage.Transaction, ref string) bool {
	select {
	case w.ch <- settlement{tx: t, ref: ref}:
		telemetry.SetSandboxQueueCurrent(len(w.ch))
		return true
	default:
		w.log.Warn("settlement queue full", zap.String("tx_id", t.ID.String()))
		return false
	}
}

func (w *Worker) Run(ctx context.Context) {
	w.log.Info("settlement worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("settlement worker stopped")
			return
		case s := <-w.ch:
			telemetry.SetSandboxQueueCurrent(len(w.ch))
			timer := time.NewTimer(w.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				w.log.Info("settlement worker stopped", zap.String("pending_tx_id", s.tx.ID.String()))
				return
			case <-timer.C:
			}
			_, _ = w.Settle(ctx, s.tx, s.ref)
		}
	}
}

// Settle marks t completed with the provider reference and stores it.
func (w *Worker) Settle(ctx context.Context, t storage.Transaction, ref string) (storage.Transaction, error) {
	t.Status = string(transaction.StatusCompleted)
	t.ProcessorRef = ref
	if err := w.repo.UpsertTx(ctx, t); err != nil {
		w.log.Error("failed to upsert tx", zap.String("tx_id", t.ID.String()), zap.Error(err))
		return t, err
	}
	telemetry.IncSandboxSettled(t.Status)
	w.log.Info("transaction settled", zap.String("tx_id", t.ID.String()), zap.String("status", t.Status))
	return t, nil
}
