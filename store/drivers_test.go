package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinizap/notes-api/domain"
)

func TestClassifyPgError(t *testing.T) {
	assert.ErrorIs(t, classifyPgError(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, classifyPgError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)

	badText := &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation, Message: "invalid input syntax for type uuid"}
	err := classifyPgError(badText)
	assert.ErrorIs(t, err, domain.ErrMalformedID)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, pgerrcode.InvalidTextRepresentation, pgErr.Code)

	check := &pgconn.PgError{Code: pgerrcode.CheckViolation}
	assert.ErrorIs(t, classifyPgError(check), domain.ErrValidation)

	missing := &pgconn.PgError{Code: pgerrcode.UndefinedTable}
	err = classifyPgError(missing)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "run migrations")

	other := errors.New("connection reset")
	assert.Equal(t, other, classifyPgError(other))
}

func TestRowKey(t *testing.T) {
	_, err := rowKey("6650b1f2c1d4a0e5f0a1b2c3")
	assert.ErrorIs(t, err, domain.ErrMalformedID)

	key, err := rowKey("0b6f3c2e-8e43-4d55-9a53-6b8f8f6a2d10")
	require.NoError(t, err)
	assert.Equal(t, "0b6f3c2e-8e43-4d55-9a53-6b8f8f6a2d10", key.String())
}

func TestObjectID(t *testing.T) {
	_, err := objectID("not-an-object-id")
	assert.ErrorIs(t, err, domain.ErrMalformedID)

	oid, err := objectID("6650b1f2c1d4a0e5f0a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "6650b1f2c1d4a0e5f0a1b2c3", oid.Hex())
}

func TestPatchSetOnlyAllowListedFields(t *testing.T) {
	assert.Empty(t, patchSet(domain.NotePatch{}))

	title, done := "renamed", true
	set := patchSet(domain.NotePatch{Title: &title, Completed: &done})
	assert.Equal(t, bson.M{"title": "renamed", "completed": true}, set)
}
