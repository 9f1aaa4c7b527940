package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/clima-laboral-api/pkg/config"
)

func TestSchemaErrorClassification(t *testing.T) {
	missingTable := fmt.Errorf("list history: %w", &pq.Error{Code: "42P01", Message: `relation "historico_bimestral" does not exist`})
	missingColumn := &pq.Error{Code: "42703", Message: `column "periodo_label" does not exist`}

	assert.True(t, IsUndefinedTable(missingTable))
	assert.False(t, IsUndefinedColumn(missingTable))
	assert.True(t, IsUndefinedColumn(missingColumn))
	assert.True(t, IsSchemaMismatch(missingTable))
	assert.True(t, IsSchemaMismatch(missingColumn))
	assert.False(t, IsSchemaMismatch(&pq.Error{Code: "23505"}))
	assert.False(t, IsSchemaMismatch(errors.New("connection refused")))
	assert.False(t, IsSchemaMismatch(nil))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "clima", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=clima sslmode=disable", dsn)
}
