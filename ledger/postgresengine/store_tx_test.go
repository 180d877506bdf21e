package postgresengine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

type txRecorder struct {
	committed  int
	rolledBack int
}

func (r *txRecorder) Query(context.Context, string) (adapters.DBRows, error)  { return nil, nil }
func (r *txRecorder) Exec(context.Context, string) (adapters.DBResult, error) { return nil, nil }
func (r *txRecorder) BeginTx(context.Context) (adapters.DBTx, error)         { return r, nil }

func (r *txRecorder) Commit(context.Context) error {
	r.committed++
	return nil
}

func (r *txRecorder) Rollback(context.Context) error {
	r.rolledBack++
	return nil
}

func Test_WithinTx_CommitsOnSuccess(t *testing.T) {
	// arrange
	db := &txRecorder{}
	store, err := newStore(db)
	require.NoError(t, err)

	// act
	err = store.WithinTx(context.Background(), func(context.Context) error { return nil })

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, db.committed)
	assert.Zero(t, db.rolledBack)
}

func Test_WithinTx_RollsBackOnError(t *testing.T) {
	// arrange
	db := &txRecorder{}
	store, err := newStore(db)
	require.NoError(t, err)
	failure := errors.New("decide failed")

	// act
	err = store.WithinTx(context.Background(), func(context.Context) error { return failure })

	// assert
	assert.ErrorIs(t, err, failure)
	assert.Zero(t, db.committed)
	assert.Equal(t, 1, db.rolledBack)
}

func Test_WithinTx_RollsBackAndRepanics(t *testing.T) {
	// arrange
	db := &txRecorder{}
	store, err := newStore(db)
	require.NoError(t, err)

	// act + assert
	assert.PanicsWithValue(t, "boom", func() {
		_ = store.WithinTx(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.Zero(t, db.committed)
	assert.Equal(t, 1, db.rolledBack)
}

func Test_WithinTx_NestedCallJoinsOuterTransaction(t *testing.T) {
	// arrange
	db := &txRecorder{}
	store, err := newStore(db)
	require.NoError(t, err)

	// act
	err = store.WithinTx(context.Background(), func(txCtx context.Context) error {
		return store.WithinTx(txCtx, func(context.Context) error { return nil })
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, db.committed)
}
