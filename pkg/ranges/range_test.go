package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntIntervalEnumeratesInclusiveOfEnd(t *testing.T) {
	r, err := NewIntInterval(0, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, r.Len())

	var got []int
	for i := 0; i < r.Len(); i++ {
		got = append(got, r.At(i).(int))
	}
	assert.Equal(t, []int{0, 2, 4, 6, 8, 10}, got)
}

func TestIntIntervalNegativeStep(t *testing.T) {
	r, err := NewIntInterval(10, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 10, r.At(0))
	assert.Equal(t, 0, r.At(2))
}

func TestIntIntervalEmptyWhenDirectionMismatched(t *testing.T) {
	r, err := NewIntInterval(0, 10, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestIntIntervalZeroStepRejected(t *testing.T) {
	_, err := NewIntInterval(0, 10, 0)
	assert.Error(t, err)
}

func TestFloatIntervalEnumeratesApproximately(t *testing.T) {
	r, err := NewFloatInterval(0.0, 1.0, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())
	assert.InDelta(t, 1.0, r.At(4).(float64), 1e-9)
}

func TestIntervalAtPanicsOutOfRange(t *testing.T) {
	r, err := NewIntInterval(0, 4, 1)
	require.NoError(t, err)
	assert.Panics(t, func() { r.At(5) })
	assert.Panics(t, func() { r.At(-1) })
}

func TestIntervalWithGeneratorPostTransformsWithoutChangingLen(t *testing.T) {
	r, err := NewIntInterval(0, 3, 1)
	require.NoError(t, err)
	squared := r.WithGenerator(func(v any) any { return v.(int) * v.(int) })

	assert.Equal(t, r.Len(), squared.Len())
	assert.Equal(t, 0, squared.At(0))
	assert.Equal(t, 9, squared.At(3))
	// The original interval is untouched by WithGenerator.
	assert.Equal(t, 3, r.At(3))
}

func TestSetPreservesOrderAndDuplicates(t *testing.T) {
	s := NewSet("a", "b", "a")
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "a", s.At(0))
	assert.Equal(t, "b", s.At(1))
	assert.Equal(t, "a", s.At(2))
}

func TestSetValuesReturnsACopy(t *testing.T) {
	s := NewSet(1, 2, 3)
	vs := s.Values()
	vs[0] = 99
	assert.Equal(t, 1, s.At(0))
}

func TestDescribeInterval(t *testing.T) {
	r, err := NewIntInterval(0, 10, 2)
	require.NoError(t, err)
	d := Describe(r)
	assert.Equal(t, "interval", d.Kind)
	assert.Equal(t, 6, d.Count)
	assert.False(t, d.Generator)

	d2 := Describe(r.WithGenerator(func(v any) any { return v }))
	assert.True(t, d2.Generator)
}

func TestDescribeSet(t *testing.T) {
	s := NewSet("x", "y")
	d := Describe(s)
	assert.Equal(t, "set", d.Kind)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, []any{"x", "y"}, d.Values)
}
