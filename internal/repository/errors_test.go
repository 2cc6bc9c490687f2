package repository

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolatedConstraint(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraintUserPhone}
	name, ok := uniqueConstraint(fmt.Errorf("insert user: %w", unique))
	assert.True(t, ok)
	assert.Equal(t, constraintUserPhone, name)

	_, ok = foreignKeyConstraint(unique)
	assert.False(t, ok)

	fk := &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: constraintFormResponseUserFK}
	name, ok = foreignKeyConstraint(fk)
	assert.True(t, ok)
	assert.Equal(t, constraintFormResponseUserFK, name)

	_, ok = uniqueConstraint(errors.New("connection reset"))
	assert.False(t, ok)
	_, ok = uniqueConstraint(nil)
	assert.False(t, ok)
}

func TestSubmitErrorClassification(t *testing.T) {
	fk := func(name string) error {
		return &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: name}
	}
	assert.ErrorIs(t, submitError("insert", fk(constraintFormResponseUserFK)), ErrUserNotFound)
	assert.ErrorIs(t, submitError("insert", fk(constraintAnswerUserFK)), ErrUserNotFound)
	assert.ErrorIs(t, submitError("insert", fk(constraintFormResponseFormFK)), ErrFormNotFound)
	assert.ErrorIs(t, submitError("insert", fk(constraintAnswerFormFK)), ErrFormNotFound)

	other := errors.New("deadlock detected")
	err := submitError("insert answer", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

// The classifiers match on constraint names, so they must exist in the schema.
func TestConstraintNamesMatchSchema(t *testing.T) {
	schema, err := os.ReadFile("../persistence/migrations/0001_init.sql")
	require.NoError(t, err)

	for _, name := range []string{
		constraintUserPhone,
		constraintUserEmail,
		constraintFormResponseUser,
		constraintFormResponseUserFK,
		constraintFormResponseFormFK,
		constraintAnswerUserFK,
		constraintAnswerFormFK,
	} {
		assert.Contains(t, string(schema), "CONSTRAINT "+name+" ", name)
	}
}
