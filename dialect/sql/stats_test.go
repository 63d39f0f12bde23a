package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/definer/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var slow []string
	drv := NewStatsDriver(OpenDB(dialect.MySQL, db),
		WithSlowThreshold(-1),
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			slow = append(slow, query)
		}),
	)
	assert.Equal(t, dialect.MySQL, drv.Dialect())

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE").WillReturnError(errors.New("boom"))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.Error(t, drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.EqualValues(t, 1, s.Queries)
	assert.EqualValues(t, 1, s.Execs)
	assert.EqualValues(t, 1, s.Errors)
	assert.EqualValues(t, 2, s.Slow)
	assert.Equal(t, []string{"SELECT 1", "DELETE FROM users"}, slow)
	assert.Contains(t, s.String(), "queries=1 execs=1")
}

func TestStatsDriverFast(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	drv := NewStatsDriver(OpenDB(dialect.MySQL, db),
		WithSlowThreshold(time.Hour),
		WithSlowQueryLog(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, drv.Exec(context.Background(), "UPDATE t SET a = ?", []any{1}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, drv.QueryStats().Stats().String(), "queries=0 execs=1")
	assert.Zero(t, drv.QueryStats().Stats().Slow)
	assert.Empty(t, buf.String())
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := NewDebugDriver(OpenDB(dialect.MySQL, db), logger)

	mock.ExpectExec("INSERT").WithArgs("a", 1).WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO t VALUES (?, ?)", []any{"a", true}, nil))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "msg=exec")
	assert.Contains(t, buf.String(), "types=si")
}
