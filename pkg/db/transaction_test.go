package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/pkg/db"
)

// fakeTx records how a transaction was finished. Methods not overridden panic
// through the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()

		b := &fakeBeginner{tx: &fakeTx{}}
		err := db.WithTx(context.Background(), b, func(tx pgx.Tx) error {
			require.Same(t, b.tx, tx)
			return nil
		})

		require.NoError(t, err)
		require.True(t, b.tx.committed)
		require.False(t, b.tx.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()

		b := &fakeBeginner{tx: &fakeTx{}}
		boom := errors.New("boom")
		err := db.WithTx(context.Background(), b, func(pgx.Tx) error { return boom })

		require.Same(t, boom, err)
		require.False(t, b.tx.committed)
		require.True(t, b.tx.rolledBack)
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		t.Parallel()

		b := &fakeBeginner{tx: &fakeTx{}}
		require.PanicsWithValue(t, "kaboom", func() {
			_ = db.WithTx(context.Background(), b, func(pgx.Tx) error { panic("kaboom") })
		})
		require.True(t, b.tx.rolledBack)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()

		called := false
		b := &fakeBeginner{err: errors.New("pool closed")}
		err := db.WithTx(context.Background(), b, func(pgx.Tx) error {
			called = true
			return nil
		})

		require.ErrorIs(t, err, db.ErrBeginTx)
		require.False(t, called)
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()

		b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
		err := db.WithTx(context.Background(), b, func(pgx.Tx) error { return nil })

		require.ErrorIs(t, err, db.ErrCommitTx)
	})
}

func TestConnect_InvalidConnectionString(t *testing.T) {
	t.Parallel()

	pool, err := db.Connect(context.Background(), db.Config{ConnectionString: "://not a url"}, nil)
	require.ErrorIs(t, err, db.ErrFailedToParseDBConfig)
	require.Nil(t, pool)
}

func TestHealthcheck_NilPool(t *testing.T) {
	t.Parallel()

	err := db.Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, db.ErrHealthcheckFailed)
}
