package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKindSentinel(t *testing.T) {
	err := NotFound("pokemon %d not found", 25)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("service: %w", Conflict("pokemon already exists"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestPersistence_UnwrapsCause(t *testing.T) {
	err := Persistence(sql.ErrConnDone, "failed to load pokemon")

	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.Equal(t, "failed to load pokemon: sql: connection is already closed", err.Error())
}

func TestValidation_FieldInMessage(t *testing.T) {
	err := Validation("abilities", "malformed JSON")

	assert.Equal(t, "abilities: malformed JSON", err.Error())
	assert.Equal(t, "abilities", FieldOf(fmt.Errorf("wrapped: %w", err)))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "storage_fault", KindStorage.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
