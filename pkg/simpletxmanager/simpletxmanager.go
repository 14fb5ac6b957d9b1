// Package simpletxmanager is the uninstrumented counterpart of
// pkg/txmanager, working directly on *sql.DB when metrics are disabled.
package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salonflow/scheduling-service/pkg/dbmetrics"
	"github.com/salonflow/scheduling-service/pkg/txmanager"
)

// TransactionManager executes functions inside serializable transactions
// on a plain *sql.DB.
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a transaction manager over db.
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable runs fn inside a SERIALIZABLE transaction exposed to
// repositories through the context. No retry, but Postgres 40001 is still
// classified as txmanager.ErrSerializationFailure: use cases map the
// sentinel to a write conflict regardless of which manager is wired.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("simpletxmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		if txmanager.IsSerializationFailure(err) {
			return fmt.Errorf("%w: %v", txmanager.ErrSerializationFailure, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if txmanager.IsSerializationFailure(err) {
			return fmt.Errorf("%w: %v", txmanager.ErrSerializationFailure, err)
		}
		return fmt.Errorf("simpletxmanager: commit: %w", err)
	}

	return nil
}
