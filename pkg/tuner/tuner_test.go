package tuner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atf-go/atf/pkg/abort"
	"github.com/atf-go/atf/pkg/ranges"
	"github.com/atf-go/atf/pkg/technique"
	"github.com/atf-go/atf/pkg/tp"
	"github.com/atf-go/atf/pkg/tuningdata"
)

func simpleParams(t *testing.T) []*tp.Param {
	t.Helper()
	r, err := ranges.NewIntInterval(0, 9, 1)
	require.NoError(t, err)
	return []*tp.Param{tp.New("x", r)}
}

func TestTuneRunsUntilEvaluationsAbortCondition(t *testing.T) {
	tn, err := New(Config{
		Params:         simpleParams(t),
		Technique:      technique.NewRandom(1),
		AbortCondition: abort.Evaluations{N: 5},
		CostFunction: func(_ context.Context, cfg tuningdata.Configuration) (float64, tuningdata.MetaData, error) {
			return float64(cfg["x"].(int)), nil, nil
		},
	})
	require.NoError(t, err)

	td, err := tn.Tune(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, td.Evaluated())
	assert.EqualValues(t, 5, td.Valid())
	assert.False(t, td.TerminatedEarly())
	require.NotNil(t, td.BestCost())
}

func TestTuneRecordsInvalidConfigurationsAndContinues(t *testing.T) {
	calls := 0
	tn, err := New(Config{
		Params:         simpleParams(t),
		Technique:      technique.NewRandom(2),
		AbortCondition: abort.Evaluations{N: 6},
		CostFunction: func(_ context.Context, cfg tuningdata.Configuration) (float64, tuningdata.MetaData, error) {
			calls++
			if calls%2 == 0 {
				return 0, nil, tuningdata.NewInvalidConfiguration("even call", nil)
			}
			return float64(cfg["x"].(int)), nil, nil
		},
	})
	require.NoError(t, err)

	td, err := tn.Tune(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 6, td.Evaluated())
	assert.EqualValues(t, 3, td.Valid())
}

func TestTunePropagatesFatalEvaluationError(t *testing.T) {
	boom := errors.New("boom")
	tn, err := New(Config{
		Params:         simpleParams(t),
		Technique:      technique.NewRandom(3),
		AbortCondition: abort.Evaluations{N: 100},
		CostFunction: func(_ context.Context, _ tuningdata.Configuration) (float64, tuningdata.MetaData, error) {
			return 0, nil, boom
		},
	})
	require.NoError(t, err)

	_, err = tn.Tune(context.Background())
	require.Error(t, err)
	var fatal *tuningdata.FatalEvaluationError
	require.ErrorAs(t, err, &fatal)
	assert.ErrorIs(t, err, boom)
}

func TestTuneWithIndexTechniqueBuildsIndexAddressableSpace(t *testing.T) {
	tn, err := New(Config{
		Params:         simpleParams(t),
		Technique:      technique.NewExhaustive(),
		AbortCondition: abort.Evaluations{N: 10},
		CostFunction: func(_ context.Context, cfg tuningdata.Configuration) (float64, tuningdata.MetaData, error) {
			return float64(cfg["x"].(int)), nil, nil
		},
	})
	require.NoError(t, err)

	td, err := tn.Tune(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 10, td.Evaluated())

	var seen []int
	for _, e := range td.History() {
		seen = append(seen, e.Config["x"].(int))
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)
}
