// Package txmanager runs functions inside serializable Postgres
// transactions with retry on serialization failures. It is the server-side
// backstop against two clients validating the same slot concurrently and
// both writing: at this isolation level one of the writes fails and is
// retried against fresh data.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/salonflow/scheduling-service/pkg/dbmetrics"
)

const (
	maxRetries = 3
	retryDelay = 50 * time.Millisecond

	// Postgres error code for serialization_failure
	serializationFailureCode = "40001"
)

// ErrSerializationFailure is returned when a serializable transaction could
// not be committed after all retries.
var ErrSerializationFailure = errors.New("txmanager: serialization failure after retries")

// TxBeginner starts transactions; satisfied by *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager executes functions inside serializable transactions.
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager creates a transaction manager over the given handle.
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable runs fn inside a SERIALIZABLE transaction. The transaction
// is exposed to repositories through the context (dbmetrics.WithTx).
// Serialization failures are retried up to maxRetries times.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}

		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrSerializationFailure, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit: %w", err)
	}

	return nil
}

// IsSerializationFailure reports whether err is a Postgres
// serialization_failure (code 40001). Shared with pkg/simpletxmanager so
// both managers surface the same sentinel to use cases.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == serializationFailureCode
	}
	return false
}
