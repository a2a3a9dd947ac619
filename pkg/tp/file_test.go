package tp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
parameters:
  - name: block_size
    range:
      kind: interval_int
      start: 16
      end: 256
      step: 16
  - name: unroll
    range:
      kind: set
      values: [1, 2, 4, 8]
    constraint: unroll_fits_block
    depends_on: [block_size]
`

func TestLoadFileBuildsParamsAndWiresConstraints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	fits := func(values map[string]any) bool {
		return values["unroll"].(int) <= values["block_size"].(int)
	}

	params, err := LoadFile(path, map[string]Constraint{"unroll_fits_block": fits})
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "block_size", params[0].Name())
	assert.False(t, params[0].HasConstraint())
	assert.Equal(t, 16, params[0].Values().Len())

	assert.Equal(t, "unroll", params[1].Name())
	assert.True(t, params[1].HasConstraint())
	assert.Equal(t, []string{"block_size"}, params[1].DependsOn())
}

func TestLoadFileUnknownConstraintErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	_, err := LoadFile(path, nil)
	assert.Error(t, err)
}

func TestLoadFileMissingPath(t *testing.T) {
	_, err := LoadFile("/no/such/file.yaml", nil)
	assert.Error(t, err)
}

func TestDescribeParam(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parameters:
  - name: x
    range:
      kind: interval_int
      start: 0
      end: 4
      step: 1
`), 0o644))

	params, err := LoadFile(path, nil)
	require.NoError(t, err)

	d := Describe(params[0])
	assert.Equal(t, "x", d.Name)
	assert.False(t, d.Constraint)
	assert.Equal(t, "interval", d.Range.Kind)
}
