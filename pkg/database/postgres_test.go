package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebd-admin/ebd-api/pkg/config"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "ebd", Password: "secret", Name: "escola", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=ebd password=secret dbname=escola sslmode=disable", dsn)
}
