package midi

import (
	"math"
	"time"

	"go-mutwo/converter/midifile"
	"go-mutwo/debug"
	"go-mutwo/event"
	"go-mutwo/tempo"
)

// Schedule flattens ev into time ordered events. Pitches, channels and
// pitch bends are chosen exactly as in a midi file written with opts,
// and the clock follows the tempo envelope of opts.
func Schedule(ev event.Event, opts midifile.Options) ([]Event, error) {
	c, err := midifile.NewConverter(opts)
	if err != nil {
		return nil, err
	}
	msgs, err := c.Messages(ev)
	if err != nil {
		return nil, err
	}
	tc := tempo.NewConverter(c.Options().Tempo)
	out := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		e, ok := FromMessage(seconds(tc.Time(c.TicksToBeats(m.Tick))), m.Message)
		if !ok {
			continue
		}
		out = append(out, e)
	}
	debug.Log("midi", "scheduled %d events over %s", len(out), Length(ev, c.Options().Tempo))
	return out, nil
}

// Length is the playing time of ev.
func Length(ev event.Event, env tempo.TempoEnvelope) time.Duration {
	if ev == nil {
		return 0
	}
	return seconds(tempo.NewConverter(env).Time(ev.Duration()))
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
