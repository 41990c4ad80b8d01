package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_BeginFinish(t *testing.T) {
	tests := []struct {
		name   string
		expect func(pgxmock.PgxPoolIface)
		finish func(context.Context, *Tx) error
	}{
		{
			name:   "commit",
			expect: func(m pgxmock.PgxPoolIface) { m.ExpectCommit() },
			finish: func(ctx context.Context, tx *Tx) error { return tx.Commit(ctx) },
		},
		{
			name:   "rollback",
			expect: func(m pgxmock.PgxPoolIface) { m.ExpectRollback() },
			finish: func(ctx context.Context, tx *Tx) error { return tx.Rollback(ctx) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockPool := newMockPool(t)
			mockPool.ExpectBegin()
			tt.expect(mockPool)

			tx, err := newTxManagerWithPool(mockPool).Begin(ctx)
			require.NoError(t, err)

			pgTx, ok := tx.(*Tx)
			require.True(t, ok, "expected *Tx, got %T", tx)
			assert.NotNil(t, pgTx.PgxTx())

			require.NoError(t, tt.finish(ctx, pgTx))
			assertExpectations(t, mockPool)
		})
	}
}

func TestTxManager_BeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("begin failed")
	mockPool.ExpectBegin().WillReturnError(mockErr)

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	require.ErrorIs(t, err, mockErr)
	assert.Nil(t, tx)
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestPgxTx_RejectsForeignTransaction(t *testing.T) {
	_, err := pgxTx(foreignTx{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected transaction type")
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
