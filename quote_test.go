package definer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/definer/dialect"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, "`users`", quote(dialect.MySQL, "users"))
	assert.Equal(t, "`we``ird`", quote(dialect.SQLite, "we`ird"))
	assert.Equal(t, `"users"`, quote(dialect.Postgres, "users"))
	assert.Equal(t, "`a`,`b`", quoteList(dialect.MySQL, []string{"a", "b"}))
	assert.Equal(t, "", quoteList(dialect.MySQL, nil))
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect, in, want string
	}{
		{dialect.MySQL, "SELECT * FROM t WHERE a = ?", "SELECT * FROM t WHERE a = ?"},
		{dialect.Postgres, "SELECT 1", "SELECT 1"},
		{dialect.Postgres, `UPDATE "t" SET "a" = ? WHERE ("b" IN (?,?))`, `UPDATE "t" SET "a" = $1 WHERE ("b" IN ($2,$3))`},
		{dialect.Postgres, `SELECT "a?" FROM t WHERE b = '?' AND c = ?`, `SELECT "a?" FROM t WHERE b = '?' AND c = $1`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rebind(tt.dialect, tt.in))
	}
}

func TestColumnModel(t *testing.T) {
	var none *columnModel
	assert.True(t, none.has("anything"))
	assert.Zero(t, none.len())
	assert.Equal(t, []string{"a", "b"}, none.filter([]string{"a", "b"}))
	require.NoError(t, none.validate("update", []string{"x"}))

	m, err := newColumnModel([]string{"id", "name", "users.email"})
	require.NoError(t, err)
	assert.Equal(t, 3, m.len())
	assert.True(t, m.has("users.email"))
	assert.False(t, m.has("password"))
	assert.Equal(t, []string{"name", "id"}, m.filter([]string{"name", "password", "id"}))

	err = m.validate("update", []string{"id", "password"})
	require.ErrorIs(t, err, ErrUnknownColumn)
	assert.EqualError(t, err, `definer: column not in model (update: "password")`)

	for _, bad := range [][]string{{"1st"}, {"a b"}, {""}, {"id", "id"}, {"x;DROP"}} {
		_, err := newColumnModel(bad)
		require.ErrorIs(t, err, ErrInvalidColumn, bad)
	}
}
