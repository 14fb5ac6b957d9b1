package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonflow/scheduling-service/pkg/txmanager"
)

// Минимальный драйвер: транзакции начинаются всегда, а результат
// Commit настраивается из теста.
type stubConn struct {
	commitErr error
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return &stubTx{err: c.commitErr}, nil }

func (c *stubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	return &stubTx{err: c.commitErr}, nil
}

type stubTx struct {
	err error
}

func (t *stubTx) Commit() error   { return t.err }
func (t *stubTx) Rollback() error { return nil }

type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

var stubbedConn = &stubConn{}

func init() {
	sql.Register("stubtx", &stubDriver{conn: stubbedConn})
}

func openDB(t *testing.T, commitErr error) *sql.DB {
	t.Helper()
	stubbedConn.commitErr = commitErr
	db, err := sql.Open("stubtx", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDoSerializableCommits(t *testing.T) {
	m := NewTransactionManager(openDB(t, nil))

	called := false
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestDoSerializablePassesThroughFnError(t *testing.T) {
	m := NewTransactionManager(openDB(t, nil))
	want := errors.New("domain error")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.NotErrorIs(t, err, txmanager.ErrSerializationFailure)
}

// Конкурентная запись при выключенных метриках: 40001 на коммите должен
// превращаться в общий sentinel, чтобы use case ответил конфликтом, а не
// внутренней ошибкой.
func TestDoSerializableClassifiesCommitConflict(t *testing.T) {
	m := NewTransactionManager(openDB(t, &pq.Error{Code: "40001"}))

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, txmanager.ErrSerializationFailure)
}

func TestDoSerializableClassifiesFnConflict(t *testing.T) {
	m := NewTransactionManager(openDB(t, nil))

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "40001"}
	})

	assert.ErrorIs(t, err, txmanager.ErrSerializationFailure)
}
