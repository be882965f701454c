package postgres_test

import (
	"errors"
	"fmt"
	"rento/infras/postgres"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: pgerrcode.UniqueViolation, Constraint: "users_email_key"}

	assert.True(t, postgres.IsUniqueViolation(dup))
	assert.True(t, postgres.IsUniqueViolation(fmt.Errorf("insert user: %w", dup)))
	assert.True(t, postgres.IsUniqueViolation(dup, "users_email_key"))
	assert.False(t, postgres.IsUniqueViolation(dup, "items_pkey"))
	assert.False(t, postgres.IsUniqueViolation(&pq.Error{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, postgres.IsUniqueViolation(errors.New("duplicate key")))
	assert.False(t, postgres.IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pq.Error{Code: pgerrcode.ForeignKeyViolation, Constraint: "bookings_item_id_fkey"}

	assert.True(t, postgres.IsForeignKeyViolation(fk))
	assert.True(t, postgres.IsForeignKeyViolation(fk, "bookings_item_id_fkey"))
	assert.False(t, postgres.IsForeignKeyViolation(&pq.Error{Code: pgerrcode.UniqueViolation}))
}
