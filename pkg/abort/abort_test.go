package abort

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atf-go/atf/pkg/tuningdata"
)

func TestEvaluationsStopsAtThreshold(t *testing.T) {
	td := tuningdata.New()
	cond := Evaluations{N: 3}

	for i := 0; i < 2; i++ {
		td.Record(tuningdata.Configuration{}, true, nil, nil, nil, nil)
		assert.False(t, cond.Stop(td))
	}
	td.Record(tuningdata.Configuration{}, true, nil, nil, nil, nil)
	assert.True(t, cond.Stop(td))

	p, ok := cond.Progress(td)
	require.True(t, ok)
	assert.Equal(t, 1.0, p)
}

func TestCostStopsWhenBestReachesThreshold(t *testing.T) {
	td := tuningdata.New()
	cond := Cost{C: 2.0}

	c := 5.0
	td.Record(tuningdata.Configuration{}, true, &c, nil, nil, nil)
	assert.False(t, cond.Stop(td))

	c2 := 1.5
	td.Record(tuningdata.Configuration{}, true, &c2, nil, nil, nil)
	assert.True(t, cond.Stop(td))
}

func TestAndRequiresAllSubconditions(t *testing.T) {
	td := tuningdata.New()
	a := And{Evaluations{N: 2}, ValidEvaluations{N: 2}}

	td.Record(tuningdata.Configuration{}, false, nil, nil, nil, nil)
	assert.False(t, a.Stop(td))

	td.Record(tuningdata.Configuration{}, true, nil, nil, nil, nil)
	assert.False(t, a.Stop(td))

	td.Record(tuningdata.Configuration{}, true, nil, nil, nil, nil)
	assert.True(t, a.Stop(td))
}

func TestOrStopsOnFirstSatisfied(t *testing.T) {
	td := tuningdata.New()
	o := Or{Evaluations{N: 100}, Duration{D: time.Nanosecond}}
	time.Sleep(time.Millisecond)
	assert.True(t, o.Stop(td))
}

func TestProgressUnknownPropagatesThroughAndOr(t *testing.T) {
	td := tuningdata.New()
	a := And{Evaluations{N: 5}, Cost{C: 1}}
	_, ok := a.Progress(td)
	assert.False(t, ok)

	o := Or{Evaluations{N: 5}, Cost{C: 1}}
	_, ok = o.Progress(td)
	assert.False(t, ok)
}
