package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeMissingProperty, "no such key")

	assert.Equal(t, ErrorTypeMissingProperty, err.Type)
	assert.Equal(t, "missing_property: no such key", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	t.Run("preserves cause", func(t *testing.T) {
		cause := fs.ErrNotExist
		err := Wrap(cause, ErrorTypeLoad, "loader failed")

		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, err.Error(), "data_load_failure")
	})

	t.Run("nil cause returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrorTypeLoad, "ignored"))
	})

	t.Run("keeps original stack when rewrapping", func(t *testing.T) {
		inner := New(ErrorTypeMalformedQuantity, "bad unit")
		outer := Wrap(inner, ErrorTypeConfig, "bad section")

		assert.Equal(t, inner.Stack, outer.Stack)
		assert.ErrorIs(t, outer, inner)
	})
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeNotFound, "no subsource MM1")

	assert.True(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeNotFound))

	// Type survives further wrapping.
	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrorTypeLoad, "file missing")))
	assert.False(t, IsRetryable(New(ErrorTypeConfig, "duplicate INFO")))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeUnknownKind, "no loader").
		WithDetail("kind", "hdf5").
		WithDetail("section", "data1")

	assert.Equal(t, "hdf5", err.Details["kind"])
	assert.Equal(t, "data1", err.Details["section"])
}
