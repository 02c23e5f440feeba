package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDriver(t *testing.T) {
	assert.Equal(t, DriverSQLite, DetectDriver(""))
	assert.Equal(t, DriverSQLite, DetectDriver("/path/to/data.db"))
	assert.Equal(t, DriverSQLite, DetectDriver("file:/path/to/db.sqlite"))
}

func TestDriver_String(t *testing.T) {
	assert.Equal(t, "sqlite", DriverSQLite.String())
}

func TestDriver_IsValid(t *testing.T) {
	assert.True(t, DriverSQLite.IsValid())
	assert.False(t, Driver("postgres").IsValid())
	assert.False(t, Driver("").IsValid())
}
