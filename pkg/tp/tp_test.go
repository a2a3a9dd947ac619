package tp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atf-go/atf/pkg/ranges"
)

func TestNewParamHasNoConstraint(t *testing.T) {
	r, err := ranges.NewIntInterval(0, 4, 1)
	require.NoError(t, err)
	p := New("n", r)

	assert.Equal(t, "n", p.Name())
	assert.False(t, p.HasConstraint())
	assert.Nil(t, p.DependsOn())
	assert.True(t, p.Satisfies(map[string]any{}, 2))
}

func TestConstrainedParamSatisfiesDelegatesToClosure(t *testing.T) {
	r, err := ranges.NewIntInterval(0, 9, 1)
	require.NoError(t, err)

	constraint := func(values map[string]any) bool {
		return values["b"].(int) <= values["a"].(int)
	}
	p := NewConstrained("b", r, constraint, "a")

	assert.True(t, p.HasConstraint())
	assert.Equal(t, []string{"a"}, p.DependsOn())

	assignment := map[string]any{"a": 5}
	assert.True(t, p.Satisfies(assignment, 3))  // b=3 <= a=5
	assert.False(t, p.Satisfies(assignment, 8)) // b=8 > a=5
}

func TestSatisfiesPanicsWhenDependencyMissing(t *testing.T) {
	r, err := ranges.NewIntInterval(0, 4, 1)
	require.NoError(t, err)
	p := NewConstrained("b", r, func(map[string]any) bool { return true }, "a")

	assert.Panics(t, func() { p.Satisfies(map[string]any{}, 0) })
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Msg: "duplicate name"}
	assert.Equal(t, "tp: duplicate name", err.Error())
}
