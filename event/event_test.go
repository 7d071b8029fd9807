package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func durations(t *testing.T, ev Event) []any {
	t.Helper()
	v, ok := ev.GetParameter("duration").([]any)
	require.True(t, ok)
	return v
}

func TestSimpleEventParameters(t *testing.T) {
	e := NewSimpleEvent(2)
	assert.Equal(t, 2.0, e.GetParameter("duration"))
	assert.Nil(t, e.GetParameter("unknown"))

	require.NoError(t, e.SetParameter("duration", ParameterFunc(func(old any) any { return old.(float64) * 2 }), true))
	assert.Equal(t, 4.0, e.Duration())

	require.NoError(t, e.SetParameter("unknown", 3, false))
	assert.Nil(t, e.GetParameter("unknown"))
	require.NoError(t, e.SetParameter("unknown", 10, true))
	assert.Equal(t, 10, e.GetParameter("unknown"))

	assert.ErrorIs(t, e.SetParameter("duration", "long", true), ErrInvalidParameter)
	assert.ErrorIs(t, e.SetDuration(-1), ErrInvalidDuration)

	var seen []any
	e.MutateParameter("unknown", func(v any) { seen = append(seen, v) })
	e.MutateParameter("missing", func(v any) { seen = append(seen, v) })
	assert.Equal(t, []any{10}, seen)
}

func TestSimpleEventCut(t *testing.T) {
	e := NewSimpleEvent(4)
	require.NoError(t, e.CutOut(1, 3))
	assert.Equal(t, 2.0, e.Duration())

	e = NewSimpleEvent(4)
	require.NoError(t, e.CutOut(-1, 10))
	assert.Equal(t, 4.0, e.Duration())

	assert.ErrorIs(t, NewSimpleEvent(4).CutOut(3, 1), ErrInvalidCutOutStartAndEnd)
	assert.ErrorIs(t, NewSimpleEvent(2).CutOut(3, 5), ErrInvalidCutOutStartAndEnd)

	e = NewSimpleEvent(4)
	require.NoError(t, e.CutOff(1, 10))
	assert.Equal(t, 1.0, e.Duration())

	e = NewSimpleEvent(4)
	require.NoError(t, e.CutOff(5, 10))
	assert.Equal(t, 4.0, e.Duration())
	assert.ErrorIs(t, e.CutOff(2, 1), ErrInvalidCutOutStartAndEnd)
}

func TestSplitAt(t *testing.T) {
	first, second, err := SplitAt(NewSimpleEvent(3), 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.Duration())
	assert.Equal(t, 2.0, second.Duration())

	seq := NewSequentialEvent(NewSimpleEvent(3))
	first, second, err = SplitAt(seq, 1)
	require.NoError(t, err)
	assert.True(t, Equal(NewSequentialEvent(NewSimpleEvent(1)), first))
	assert.True(t, Equal(NewSequentialEvent(NewSimpleEvent(2)), second))
	// the original stays untouched
	assert.Equal(t, 3.0, seq.Duration())
}

func TestCopyIsIndependent(t *testing.T) {
	shared := NewSimpleEvent(2)
	seq := NewSequentialEvent(shared, NewSimpleEvent(3), shared)
	c := seq.Copy().(*SequentialEvent)
	require.NoError(t, c.Child(0).SetDuration(10))
	assert.Equal(t, 2.0, c.Child(2).Duration())
	assert.Equal(t, 2.0, shared.Duration())
}

func TestSequentialEventTimes(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(2), NewSimpleEvent(3), NewSimpleEvent(1))
	assert.Equal(t, 6.0, seq.Duration())
	assert.Equal(t, []float64{0, 2, 5}, seq.AbsoluteTimes())
	assert.Equal(t, [][2]float64{{0, 2}, {2, 5}, {5, 6}}, seq.StartAndEndTimePerEvent())

	assert.Equal(t, 0, seq.GetEventIndexAt(1))
	assert.Equal(t, 1, seq.GetEventIndexAt(2))
	assert.Equal(t, 2, seq.GetEventIndexAt(5.5))
	assert.Equal(t, -1, seq.GetEventIndexAt(6))
	assert.Equal(t, -1, seq.GetEventIndexAt(-1))
	assert.Nil(t, seq.GetEventAt(100))
	assert.Equal(t, 3.0, seq.GetEventAt(3).Duration())
}

func TestSequentialEventSetDuration(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(1), NewSimpleEvent(3))
	require.NoError(t, seq.SetDuration(2))
	assert.Equal(t, []any{0.5, 1.5}, durations(t, seq))

	empty := NewSequentialEvent()
	assert.ErrorIs(t, empty.SetDuration(2), ErrInvalidDuration)
}

func TestSequentialEventCutOut(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(3), NewSimpleEvent(2))
	require.NoError(t, seq.CutOut(1, 4))
	assert.Equal(t, []any{2.0, 1.0}, durations(t, seq))

	seq = NewSequentialEvent(NewSimpleEvent(1), NewSimpleEvent(1), NewSimpleEvent(1))
	require.NoError(t, seq.CutOut(1, 2))
	assert.Equal(t, []any{1.0}, durations(t, seq))
}

func TestSequentialEventCutOff(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(3), NewSimpleEvent(2))
	require.NoError(t, seq.CutOff(1, 3))
	assert.Equal(t, []any{1.0, 2.0}, durations(t, seq))

	seq = NewSequentialEvent(NewSimpleEvent(1), NewSimpleEvent(1), NewSimpleEvent(2))
	require.NoError(t, seq.CutOff(0.5, 2.5))
	assert.Equal(t, []any{0.5, 1.5}, durations(t, seq))
}

func TestSequentialEventSquashIn(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(3))
	require.NoError(t, seq.SquashIn(1, NewSimpleEvent(1.5)))
	assert.Equal(t, []any{1.0, 1.5, 0.5}, durations(t, seq))

	seq = NewSequentialEvent(NewSimpleEvent(2))
	require.NoError(t, seq.SquashIn(2, NewSimpleEvent(1)))
	assert.Equal(t, []any{2.0, 1.0}, durations(t, seq))

	seq = NewSequentialEvent(NewSimpleEvent(2), NewSimpleEvent(2))
	require.NoError(t, seq.SquashIn(0, NewSimpleEvent(3)))
	assert.Equal(t, []any{3.0, 1.0}, durations(t, seq))

	assert.ErrorIs(t, seq.SquashIn(10, NewSimpleEvent(1)), ErrSquashInPosition)
}

func TestSequentialEventSplitChildAt(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(3))
	require.NoError(t, seq.SplitChildAt(1))
	assert.Equal(t, []any{1.0, 2.0}, durations(t, seq))

	seq = NewSequentialEvent(NewSimpleEvent(1), NewSimpleEvent(4))
	require.NoError(t, seq.SplitChildAt(2))
	assert.Equal(t, []any{1.0, 1.0, 3.0}, durations(t, seq))

	// already a boundary
	require.NoError(t, seq.SplitChildAt(1))
	assert.Equal(t, 3, seq.Len())

	assert.ErrorIs(t, seq.SplitChildAt(7), ErrSplitUnavailableChild)
}

func TestSimultaneousEvent(t *testing.T) {
	sim := NewSimultaneousEvent(NewSimpleEvent(1), NewSimpleEvent(3), NewSimpleEvent(2))
	assert.Equal(t, 3.0, sim.Duration())

	sim.Filter(func(ev Event) bool { return ev.Duration() > 2 })
	assert.Equal(t, []any{3.0}, durations(t, sim))

	sim = NewSimultaneousEvent(NewSimpleEvent(4), NewSimpleEvent(2))
	require.NoError(t, sim.SetDuration(2))
	assert.Equal(t, []any{2.0, 1.0}, durations(t, sim))

	sim = NewSimultaneousEvent(NewSimpleEvent(4), NewSimpleEvent(3))
	require.NoError(t, sim.CutOff(1, 2))
	assert.Equal(t, []any{3.0, 2.0}, durations(t, sim))

	assert.ErrorIs(t, sim.SquashIn(1, NewSimpleEvent(1)), ErrInvalidEventType)
}

func TestSimultaneousEventSquashInCopies(t *testing.T) {
	sim := NewSimultaneousEvent(
		NewSequentialEvent(NewSimpleEvent(2)),
		NewSequentialEvent(NewSimpleEvent(2)),
	)
	in := NewSimpleEvent(1)
	require.NoError(t, sim.SquashIn(1, in))
	a := sim.Child(0).(*SequentialEvent)
	b := sim.Child(1).(*SequentialEvent)
	assert.Equal(t, []any{1.0, 1.0}, durations(t, a))
	assert.NotSame(t, a.Child(1), b.Child(1))
}

func TestSimultaneousEventSquashInLeavesTreeOnError(t *testing.T) {
	sim := NewSimultaneousEvent(
		NewSequentialEvent(NewSimpleEvent(2), NewSimpleEvent(2)),
		NewSimpleEvent(4),
	)
	before := sim.Copy()
	assert.ErrorIs(t, sim.SquashIn(1, NewSimpleEvent(1)), ErrInvalidEventType)
	assert.True(t, Equal(before, sim))
	assert.Equal(t, []any{2.0, 2.0}, durations(t, sim.Child(0).(*SequentialEvent)))

	// the second child is too short for the start
	sim = NewSimultaneousEvent(
		NewSequentialEvent(NewSimpleEvent(4)),
		NewSequentialEvent(NewSimpleEvent(1)),
	)
	before = sim.Copy()
	assert.ErrorIs(t, sim.SquashIn(3, NewSimpleEvent(1)), ErrSquashInPosition)
	assert.True(t, Equal(before, sim))
}

func TestSimultaneousEventSplitChildAt(t *testing.T) {
	sim := NewSimultaneousEvent(NewSimpleEvent(3), NewSequentialEvent(NewSimpleEvent(2), NewSimpleEvent(2)))
	require.NoError(t, sim.SplitChildAt(1))

	first, ok := sim.Child(0).(*SequentialEvent)
	require.True(t, ok)
	assert.Equal(t, []any{1.0, 2.0}, durations(t, first))
	assert.Equal(t, []any{1.0, 1.0, 2.0}, durations(t, sim.Child(1)))
}

func TestNestedIndices(t *testing.T) {
	inner := NewSequentialEvent(NewSimpleEvent(2))
	seq := NewSequentialEvent(inner)
	ev, err := seq.GetEventFromIndices([]int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, ev.Duration())

	require.NoError(t, seq.SetEventAtIndices([]int{0, 0}, NewSimpleEvent(5)))
	assert.Equal(t, 5.0, inner.Duration())

	_, err = seq.GetEventFromIndices([]int{3})
	assert.Error(t, err)
}

func TestTieBy(t *testing.T) {
	tagged := func(tag string, d float64) Event {
		return NewTaggedSimpleEvent(tag, d)
	}
	seq := NewSequentialEvent(tagged("a", 1), tagged("a", 2), tagged("b", 1), tagged("a", 1))
	sameTag := func(a, b Event) bool { return TagOf(a) == TagOf(b) }

	seq.TieBy(sameTag, nil, nil, true)
	assert.Equal(t, []any{3.0, 1.0, 1.0}, durations(t, seq))
	assert.Equal(t, "a", TagOf(seq.Child(0)))

	nested := NewSimultaneousEvent(
		NewSequentialEvent(tagged("x", 1), tagged("x", 1)),
		NewSequentialEvent(tagged("y", 1), tagged("z", 1)),
	)
	isSimple := func(ev Event) bool { _, ok := ev.(*SimpleEvent); return ok }
	nested.TieBy(sameTag, nil, isSimple, true)
	assert.Equal(t, 1, nested.Child(0).(*SequentialEvent).Len())
	assert.Equal(t, 2, nested.Child(1).(*SequentialEvent).Len())

	// removing the left event keeps the right one's identity
	seq = NewSequentialEvent(tagged("a", 1), tagged("a", 2))
	right := seq.Child(1)
	seq.TieBy(sameTag, nil, nil, false)
	assert.Same(t, right, seq.Child(0))
	assert.Equal(t, 3.0, seq.Duration())
}

func TestTagsSurviveCopies(t *testing.T) {
	seq := NewTaggedSequentialEvent("piano", NewSimpleEvent(2))
	empty := seq.EmptyCopy()
	assert.Equal(t, "piano", TagOf(empty))
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "piano", TagOf(seq.Copy()))
	assert.Equal(t, "piano", TagOf(seq.Slice(0, 1)))
	assert.Equal(t, "TaggedSequentialEvent([SimpleEvent(duration = 2)])", seq.String())

	sim := NewTaggedSimultaneousEvent("choir")
	assert.Equal(t, "choir", TagOf(sim.EmptyCopy()))
}

func TestContainerArithmetic(t *testing.T) {
	seq := NewSequentialEvent(NewSimpleEvent(1), NewSimpleEvent(2))
	assert.Equal(t, 4, seq.Repeat(2).Len())
	assert.Equal(t, 3, seq.Concat(NewSimpleEvent(3)).Len())
	assert.Equal(t, 2, seq.Len())
	assert.Equal(t, 2.0, seq.Slice(1, 2).Duration())
}

func TestEquality(t *testing.T) {
	a := NewSequentialEvent(NewSimpleEvent(1), NewSimultaneousEvent(NewSimpleEvent(2)))
	b := NewSequentialEvent(NewSimpleEvent(1), NewSimultaneousEvent(NewSimpleEvent(2)))
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, NewSimultaneousEvent(NewSimpleEvent(1), NewSimultaneousEvent(NewSimpleEvent(2)))))

	x := NewSimpleEvent(1)
	require.NoError(t, x.SetParameter("name", "intro", true))
	assert.False(t, Equal(x, NewSimpleEvent(1)))
	assert.True(t, Equal(x, x.Copy()))
	assert.False(t, Equal(nil, x))
}
