package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	badUUID := &pgconn.PgError{Code: "22P02"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsInvalidInput(unique))

	assert.True(t, IsInvalidInput(badUUID))
	assert.False(t, IsUniqueViolation(badUUID))

	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}
