package safeconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustIntToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), MustIntToUint64(0))
	assert.Equal(t, uint64(4096), MustIntToUint64(4096))

	assert.PanicsWithValue(t, "safeconv: negative int to uint64 conversion", func() {
		MustIntToUint64(-1)
	})
}

func TestMustInt64ToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(math.MaxInt64), MustInt64ToUint64(math.MaxInt64))

	assert.PanicsWithValue(t, "safeconv: negative int64 to uint64 conversion", func() {
		MustInt64ToUint64(-1)
	})
}

func TestMustUint64ToInt64(t *testing.T) {
	t.Parallel()

	t.Run("max_int64", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, int64(math.MaxInt64), MustUint64ToInt64(math.MaxInt64))
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: uint64 to int64 overflow", func() {
			MustUint64ToInt64(math.MaxInt64 + 1)
		})
	})
}

func TestMustIntToUint16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int
		want  uint16
	}{
		{name: "zero", input: 0, want: 0},
		{name: "constant_pool_index", input: 300, want: 300},
		{name: "max_uint16", input: math.MaxUint16, want: math.MaxUint16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MustIntToUint16(tt.input))
		})
	}

	for _, bad := range []int{-1, math.MaxUint16 + 1} {
		assert.PanicsWithValue(t, "safeconv: int to uint16 out of bounds", func() {
			MustIntToUint16(bad)
		})
	}
}

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(65536), MustIntToUint32(65536))

	assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
		MustIntToUint32(-1)
	})
}
