package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Creation(t *testing.T) {
	t.Run("Ok creates successful result", func(t *testing.T) {
		result := Ok(42)

		assert.True(t, result.IsOk())
		assert.False(t, result.IsErr())
		assert.Equal(t, 42, result.Unwrap())
		assert.NoError(t, result.Error())
	})

	t.Run("Err creates failed result", func(t *testing.T) {
		err := errors.New("read failed")
		result := Err[int](err)

		assert.False(t, result.IsOk())
		assert.True(t, result.IsErr())
		assert.Equal(t, err, result.Error())
	})
}

func TestResult_Unwrap(t *testing.T) {
	t.Run("returns value for Ok result", func(t *testing.T) {
		assert.Equal(t, "hello", Ok("hello").Unwrap())
	})

	t.Run("panics for Err result", func(t *testing.T) {
		result := Err[string](errors.New("boom"))
		assert.Panics(t, func() {
			result.Unwrap()
		})
	})
}

func TestResult_UnwrapOr(t *testing.T) {
	assert.Equal(t, 7, Ok(7).UnwrapOr(1))
	assert.Equal(t, 1, Err[int](errors.New("x")).UnwrapOr(1))
}

func TestTryFrom(t *testing.T) {
	t.Run("nil error gives Ok", func(t *testing.T) {
		v, err := TryFrom(3, nil).Value()
		assert.NoError(t, err)
		assert.Equal(t, 3, v)
	})

	t.Run("non-nil error gives Err", func(t *testing.T) {
		sentinel := errors.New("sentinel")
		result := TryFrom(3, sentinel)
		assert.True(t, result.IsErr())
		assert.ErrorIs(t, result.Error(), sentinel)
	})
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "Ok(5)", Ok(5).String())
	assert.Equal(t, "Err(bad)", Err[int](errors.New("bad")).String())
}
