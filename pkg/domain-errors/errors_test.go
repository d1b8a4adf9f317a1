package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "client not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", New(CodeValidation, "bad field"))
		assert.True(t, HasCode(err, CodeValidation))
	})

	t.Run("matches inner code of nested domain errors", func(t *testing.T) {
		inner := New(CodeNotFound, "application not found")
		err := Wrap(inner, CodeInternal, "complete wizard")
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("keeps cause reachable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeUnavailable, "draft store unavailable")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "draft store unavailable: connection refused", err.Error())
	})
}

func TestCodeOfAndMessageOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "x")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("unclassified")))
	assert.Equal(t, "wizard not found", MessageOf(Wrap(errors.New("redis: nil"), CodeNotFound, "wizard not found")))
	assert.Equal(t, "raw", MessageOf(errors.New("raw")))
}
