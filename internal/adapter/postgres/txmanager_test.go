package postgres_test

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestRunInTx_CommitsAndRoutesQueriesThroughTx(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO comment_reactions").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := postgres.QuerierFromCtx(ctx, nil).Exec(ctx, "INSERT INTO comment_reactions DEFAULT VALUES")
		return err
	})
	require.NoError(t, err)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("comment vanished")
	err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunInTx_RollbackFailureKeepsBothErrors(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	rbErr := errors.New("conn closed")
	mock.ExpectRollback().WillReturnError(rbErr)

	boom := errors.New("comment vanished")
	err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, rbErr)
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = postgres.NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error {
			panic("kaboom")
		})
	})
}

func TestRunInTx_BeginFailure(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tm := postgres.NewTxManager(mock)
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		outer := postgres.QuerierFromCtx(ctx, nil)
		require.NotNil(t, outer)
		return tm.RunInTx(ctx, func(inner context.Context) error {
			assert.Equal(t, outer, postgres.QuerierFromCtx(inner, nil))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestQuerierFromCtx_Fallback(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	assert.Equal(t, postgres.Querier(mock), postgres.QuerierFromCtx(context.Background(), mock))
}
