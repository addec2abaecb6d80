package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbebidas(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())

	body, err := fs.ReadFile(migrationsFS, migrationsDir+"/00001_init.sql")
	require.NoError(t, err)
	sql := string(body)

	assert.True(t, strings.HasPrefix(sql, "-- +goose Up"))
	assert.Contains(t, sql, "-- +goose Down")
	for _, table := range []string{"users", "supplies", "requests", "audit_logs", "system_settings"} {
		assert.Contains(t, sql, "CREATE TABLE "+table+" (", "falta la tabla %s", table)
	}
	for _, key := range []string{"ALLOW_ALL_REQUESTS_VISIBLE", "MAX_REQUEST_QUANTITY", "LOW_STOCK_THRESHOLD_WARNING"} {
		assert.Contains(t, sql, "'"+key+"'")
	}
	assert.Contains(t, sql, "CHECK (quantity >= 0)")
}
