package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	closed     bool
	committed  int
	rolledBack int
}

func (f *fakeTx) Commit(ctx context.Context) error {
	if f.closed {
		return pgx.ErrTxClosed
	}
	f.closed = true
	f.committed++
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.closed {
		return pgx.ErrTxClosed
	}
	f.closed = true
	f.rolledBack++
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestDo_Commit(t *testing.T) {
	ftx := &fakeTx{}
	m := newTxManager(&fakeBeginner{tx: ftx}, logger.NewNopLogger())

	err := m.Do(context.Background(), func(ctx context.Context) error {
		got, ok := GetTxFromContext(ctx)
		require.True(t, ok)
		assert.Same(t, ftx, got)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, ftx.committed)
	assert.Zero(t, ftx.rolledBack)
}

func TestDo_RollbackOnError(t *testing.T) {
	ftx := &fakeTx{}
	m := newTxManager(&fakeBeginner{tx: ftx}, logger.NewNopLogger())
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, ftx.committed)
	assert.Equal(t, 1, ftx.rolledBack)
}

func TestDo_BeginError(t *testing.T) {
	m := newTxManager(&fakeBeginner{err: errors.New("no conn")}, logger.NewNopLogger())

	err := m.Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})
	assert.ErrorContains(t, err, "tx.Begin failed")
}

func TestGetTxFromContext_Empty(t *testing.T) {
	_, ok := GetTxFromContext(context.Background())
	assert.False(t, ok)
}
