package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// UserError Tests
// =============================================================================

func TestNewUserError(t *testing.T) {
	err := NewUserError("invalid input", "try again")
	assert.NotNil(t, err)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "try again", err.Suggestion)
}

func TestUserErrorError(t *testing.T) {
	t.Run("without_field", func(t *testing.T) {
		err := NewUserError("invalid input", "")
		assert.Equal(t, "invalid input", err.Error())
	})

	t.Run("with_field", func(t *testing.T) {
		err := NewUserErrorWithField("hour", "25", "hour out of range", "")
		assert.Equal(t, "hour out of range: '25'", err.Error())
	})
}

func TestUserErrorCause(t *testing.T) {
	err := NewUserError("Selected date must be today or later.", "").WithCause(ErrDateInPast)

	assert.True(t, errors.Is(err, ErrDateInPast))
	assert.False(t, errors.Is(err, ErrTimeInPast))

	wrapped := fmt.Errorf("form: %w", err)
	assert.True(t, Is(wrapped, ErrDateInPast))
	ue, ok := AsUserError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Selected date must be today or later.", ue.Message)
}

// =============================================================================
// SystemError Tests
// =============================================================================

func TestSystemError(t *testing.T) {
	cause := errors.New("badger closed")

	t.Run("with_op", func(t *testing.T) {
		err := NewSystemErrorWithOp("add schedule", "storage failure", cause)
		assert.Equal(t, "storage failure during add schedule", err.Error())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, IsSystemError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsSystemError(NewUserError("test", "")))
	})
}

// =============================================================================
// Wrap Tests
// =============================================================================

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))

	base := errors.New("base")
	assert.Equal(t, "ctx: base", Wrap(base, "ctx").Error())
	assert.True(t, errors.Is(Wrap(base, "ctx"), base))
}

// =============================================================================
// Suggestion Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, GetSuggestion(nil))
	})

	t.Run("sentinel", func(t *testing.T) {
		err := fmt.Errorf("%w: 5", ErrScheduleIndex)
		assert.Equal(t, Suggestions[ErrScheduleIndex], GetSuggestion(err))
	})

	t.Run("user_error_suggestion_wins", func(t *testing.T) {
		err := NewUserError("bad", "do this instead").WithCause(ErrDateInPast)
		assert.Equal(t, "do this instead", GetSuggestion(err))
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Empty(t, GetSuggestion(errors.New("mystery")))
	})
}

func TestFormatError(t *testing.T) {
	err := NewUserError("Selected time must be now or later.", "").WithCause(ErrTimeInPast)
	assert.Equal(t, "Selected time must be now or later.\n"+Suggestions[ErrTimeInPast], FormatError(err))
	assert.Equal(t, "mystery", FormatError(errors.New("mystery")))
}
