package lilypond

import (
	"fmt"
	"os"
	"strings"

	"go-mutwo/event"
	"go-mutwo/music"
	"go-mutwo/tempo"
)

const (
	DefaultVersion = "2.24.0"
	// QuarterToneGrid spells pitches with the accidentals LilyPond
	// knows out of the box.
	QuarterToneGrid = 0.5
	// EighthToneGrid needs an Ekmelily tuning file.
	EighthToneGrid = 0.25

	warnEvery = 100
)

// VoiceConverter turns a sequence of notes into a LilyPond voice.
// Plain simple events become rests.
type VoiceConverter struct {
	Grid  float64
	Tempo *tempo.TempoEnvelope
}

func NewVoiceConverter() *VoiceConverter {
	return &VoiceConverter{Grid: QuarterToneGrid}
}

// Leaves returns the leaves of each child, with attachments applied.
func (c *VoiceConverter) Leaves(seq *event.SequentialEvent) ([][]*Leaf, error) {
	marks := c.tempoMarks(seq)
	previous := map[string]Attachment{}
	apply := func(leaves []*Leaf, a Attachment) []*Leaf {
		leaves = a.Process(leaves, previous[a.Kind()])
		previous[a.Kind()] = a
		return leaves
	}

	out := make([][]*Leaf, 0, seq.Len())
	for i, child := range seq.Children() {
		if _, ok := child.(event.ComplexEvent); ok {
			return nil, fmt.Errorf("%w: a voice holds simple events, got %T at %d", event.ErrInvalidEventType, child, i)
		}
		note, _ := child.(*music.NoteLike)
		leaves := c.leaves(note, child.Duration())
		if len(leaves) == 0 {
			continue
		}
		if mark, ok := marks[i]; ok {
			leaves = apply(leaves, mark)
		}
		if note != nil {
			if !note.IsRest() && note.Volume != nil {
				leaves = apply(leaves, NewDynamic(note.Volume))
			}
			for _, a := range NotationAttachments(note.NotationIndicators) {
				leaves = apply(leaves, a)
			}
			for _, a := range PlayingAttachments(note.PlayingIndicators) {
				leaves = apply(leaves, a)
			}
		}
		out = append(out, leaves)
	}
	return out, nil
}

func (c *VoiceConverter) leaves(note *music.NoteLike, duration float64) []*Leaf {
	grid := c.Grid
	if grid <= 0 {
		grid = QuarterToneGrid
	}
	durations := Durations(duration)
	leaves := make([]*Leaf, len(durations))
	for i, d := range durations {
		l := &Leaf{Duration: d}
		if note != nil {
			for _, p := range note.Pitches {
				l.Pitches = append(l.Pitches, ToWesternPitch(p, grid))
			}
		}
		if !l.IsRest() && i < len(durations)-1 {
			l.After = append(l.After, "~")
		}
		leaves[i] = l
	}
	return leaves
}

// tempoMarks puts each tempo point on the first child starting at or
// after it.
func (c *VoiceConverter) tempoMarks(seq *event.SequentialEvent) map[int]Tempo {
	marks := map[int]Tempo{}
	if c.Tempo == nil || len(c.Tempo.Points) == 0 {
		return marks
	}
	starts := seq.AbsoluteTimes()
	for i, at := range c.Tempo.AbsoluteTimes() {
		for j, start := range starts {
			if start >= at-1e-9 {
				marks[j] = newTempo(c.Tempo.Points[i])
				break
			}
		}
	}
	return marks
}

func newTempo(p tempo.TempoPoint) Tempo {
	if p.Reference == 0 || p.Reference == 1 {
		return Tempo{Reference: "4", BPM: p.BPM}
	}
	if d := Durations(p.Reference); len(d) == 1 {
		return Tempo{Reference: d[0], BPM: p.BPM}
	}
	return Tempo{Reference: "4", BPM: p.AbsoluteBPM()}
}

// Render writes seq as `\new Voice { ... }`.
func (c *VoiceConverter) Render(seq *event.SequentialEvent) (string, error) {
	notes, err := c.Leaves(seq)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, leaves := range notes {
		for _, l := range leaves {
			parts = append(parts, l.String())
		}
	}
	return `\new Voice { ` + strings.Join(parts, " ") + ` }`, nil
}

// ScoreConverter writes a whole score. A sequential event is one staff.
// A simultaneous event holds staves: sequential children are single
// voice staves, simultaneous children staves with several voices. The
// tag of a staff becomes its LilyPond context name.
type ScoreConverter struct {
	Voice    *VoiceConverter
	Version  string
	Includes []string
}

func NewScoreConverter() *ScoreConverter {
	return &ScoreConverter{Voice: NewVoiceConverter(), Version: DefaultVersion}
}

func (c *ScoreConverter) Render(ev event.Event) (string, error) {
	var staves []string
	switch e := ev.(type) {
	case *event.SequentialEvent:
		staff, err := c.staff(e)
		if err != nil {
			return "", err
		}
		staves = append(staves, staff)
	case *event.SimultaneousEvent:
		for _, child := range e.Children() {
			staff, err := c.staff(child)
			if err != nil {
				return "", err
			}
			staves = append(staves, staff)
		}
	default:
		return "", fmt.Errorf("%w: can't write %T as a score", event.ErrInvalidEventType, ev)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\\version \"%s\"\n", c.Version)
	b.WriteString("\\language \"english\"\n")
	for _, inc := range c.Includes {
		fmt.Fprintf(&b, "\\include \"%s\"\n", inc)
	}
	b.WriteString("\n\\score {\n  <<\n")
	for _, s := range staves {
		b.WriteString(s)
	}
	b.WriteString("  >>\n  \\layout { }\n}\n")
	return b.String(), nil
}

func (c *ScoreConverter) staff(ev event.Event) (string, error) {
	var voices []string
	switch e := ev.(type) {
	case *event.SequentialEvent:
		v, err := c.Voice.Render(e)
		if err != nil {
			return "", err
		}
		voices = append(voices, v)
	case *event.SimultaneousEvent:
		for _, child := range e.Children() {
			seq, ok := child.(*event.SequentialEvent)
			if !ok {
				return "", fmt.Errorf("%w: a staff holds sequential events, got %T", event.ErrInvalidEventType, child)
			}
			v, err := c.Voice.Render(seq)
			if err != nil {
				return "", err
			}
			voices = append(voices, v)
		}
	default:
		return "", fmt.Errorf("%w: a staff can't hold %T", event.ErrInvalidEventType, ev)
	}

	head := `    \new Staff`
	if tag := event.TagOf(ev); tag != "" {
		head += fmt.Sprintf(` = "%s"`, tag)
	}
	if len(voices) == 1 {
		return head + " {\n      " + voices[0] + "\n    }\n", nil
	}
	return head + " <<\n      " + strings.Join(voices, "\n      ") + "\n    >>\n", nil
}

// Convert writes the score to path.
func (c *ScoreConverter) Convert(ev event.Event, path string) error {
	text, err := c.Render(ev)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}
