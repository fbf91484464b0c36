package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS transactions (
	id             UUID PRIMARY KEY,
	amount         NUMERIC(14,2) NOT NULL,
	currency       TEXT NOT NULL,
	customer_name  TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	card_last4     TEXT NOT NULL,
	status         TEXT NOT NULL,
	processor_ref  TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the transactions table when it is missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := p.DB.ExecContext(ctx, schemaDDL)
	return err
}

func (p *PostgresStore) Ping(ctx context.Context) error { return p.DB.PingContext(ctx) }

func (p *PostgresStore) Close() error { return p.DB.Close() }

func (p *PostgresStore) UpsertTx(ctx context.Context, t Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, currency, customer_name, customer_email, card_last4, status, processor_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status        = EXCLUDED.status,
		    processor_ref = EXCLUDED.processor_ref
	`, t.ID, t.Amount, t.Currency, t.CustomerName, t.CustomerEmail, t.CardLast4, t.Status, t.ProcessorRef, t.CreatedAt)
	return err
}

const selectColumns = `SELECT id, amount, currency, customer_name, customer_email, card_last4, status, processor_ref, created_at FROM transactions`

type scanner interface {
	Scan(dest ...any) error
}

func scanTx(s scanner) (Transaction, error) {
	var t Transaction
	err := s.Scan(&t.ID, &t.Amount, &t.Currency, &t.CustomerName, &t.CustomerEmail, &t.CardLast4, &t.Status, &t.ProcessorRef, &t.CreatedAt)
	return t, err
}

func (p *PostgresStore) GetTx(ctx context.Context, id uuid.UUID) (Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t, err := scanTx(p.DB.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrTxNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

func (p *PostgresStore) ListTx(ctx context.Context) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.DB.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
