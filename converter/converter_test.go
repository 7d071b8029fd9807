package converter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
)

func tree() event.Event {
	return event.NewSequentialEvent(
		event.NewSimpleEvent(1),
		event.NewTaggedSimultaneousEvent("chord",
			event.NewSimpleEvent(2),
			event.NewSequentialEvent(event.NewSimpleEvent(0.5), event.NewSimpleEvent(0.5)),
		),
		event.NewSimpleEvent(3),
	)
}

func TestWalk(t *testing.T) {
	var starts []float64
	err := Walk(tree(), 10, func(leaf event.Event, at float64) error {
		starts = append(starts, at)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 11, 11.5, 13}, starts)
}

func TestWalkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Walk(tree(), 0, func(event.Event, float64) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	assert.ErrorIs(t, Walk(nil, 0, nil), event.ErrInvalidEventType)
}

func TestRebuild(t *testing.T) {
	src := tree()
	out, err := Rebuild(src, 0, func(leaf event.Event, at float64) (event.Event, error) {
		e := event.NewSimpleEvent(leaf.Duration() * 2)
		require.NoError(t, e.SetParameter("start", at, true))
		return e, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2*src.Duration(), out.Duration())

	seq := out.(*event.SequentialEvent)
	assert.Equal(t, "chord", event.TagOf(seq.Child(1)))
	assert.Equal(t, 1.0, seq.Child(1).(*event.SimultaneousEvent).Child(0).GetParameter("start"))
	// the source is untouched
	assert.Equal(t, 6.0, src.Duration())
}

func TestLeaves(t *testing.T) {
	leaves, err := Leaves(tree())
	require.NoError(t, err)
	require.Len(t, leaves, 5)
	assert.Equal(t, 1.5, leaves[3].Start)
	assert.Equal(t, 2.0, leaves[3].End())
}
