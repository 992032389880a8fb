package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLite(t *testing.T) {
	db, err := Connect(Options{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, sqlDB.Ping())
	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Options{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestConnectPostgresRequiresDSN(t *testing.T) {
	_, err := Connect(Options{Driver: "postgres"})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
