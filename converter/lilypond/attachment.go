package lilypond

import (
	"fmt"
	"strings"

	"go-mutwo/debug"
	"go-mutwo/indicator"
	"go-mutwo/volume"
)

// Attachment decorates the leaves of one note. Previous is the
// attachment of the same kind on the preceding note, or nil.
type Attachment interface {
	Kind() string
	Process(leaves []*Leaf, previous Attachment) []*Leaf
}

// toggle applies fn to the first leaf only when the attachment differs
// from the previous one.
func toggle(a, previous Attachment, leaves []*Leaf, fn func(*Leaf)) []*Leaf {
	if previous != nil && previous == a {
		return leaves
	}
	if len(leaves) > 0 {
		fn(leaves[0])
	}
	return leaves
}

func bangEach(leaves []*Leaf, fn func(*Leaf)) []*Leaf {
	for _, l := range leaves {
		fn(l)
	}
	return leaves
}

func bangFirst(leaves []*Leaf, fn func(*Leaf)) []*Leaf {
	if len(leaves) > 0 {
		fn(leaves[0])
	}
	return leaves
}

func bangLast(leaves []*Leaf, fn func(*Leaf)) []*Leaf {
	if len(leaves) > 0 {
		fn(leaves[len(leaves)-1])
	}
	return leaves
}

func after(s string) func(*Leaf) {
	return func(l *Leaf) { l.After = append(l.After, s) }
}

func before(s string) func(*Leaf) {
	return func(l *Leaf) { l.Before = append(l.Before, s) }
}

func directionPrefix(direction string) string {
	switch direction {
	case "up":
		return "^"
	case "down":
		return "_"
	}
	return "-"
}

type Articulation indicator.Articulation

func (a Articulation) Kind() string { return "articulation" }
func (a Articulation) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangEach(leaves, after(`-\`+a.Name))
}

type Arpeggio indicator.Arpeggio

func (a Arpeggio) Kind() string { return "arpeggio" }
func (a Arpeggio) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, func(l *Leaf) {
		switch a.Direction {
		case "up":
			l.Before = append(l.Before, `\arpeggioArrowUp`)
		case "down":
			l.Before = append(l.Before, `\arpeggioArrowDown`)
		}
		l.After = append(l.After, `\arpeggio`)
	})
}

// Tremolo writes NFlags extra beams on top of the written duration.
type Tremolo indicator.Tremolo

func (a Tremolo) Kind() string { return "tremolo" }
func (a Tremolo) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangEach(leaves, func(l *Leaf) {
		l.After = append(l.After, fmt.Sprintf(":%d", 1<<(2+a.NFlags+l.flags())))
	})
}

// ArtificalHarmonic adds a harmonic note head NSemitones above a
// single pitch.
type ArtificalHarmonic indicator.ArtificalHarmonic

func (a ArtificalHarmonic) Kind() string { return "artifical_harmonic" }
func (a ArtificalHarmonic) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangEach(leaves, func(l *Leaf) {
		if len(l.Pitches) != 1 {
			if len(l.Pitches) > 1 {
				debug.WarnEvery(warnEvery, "lilypond", "artificial harmonic needs a single pitch, got %d", len(l.Pitches))
			}
			return
		}
		l.Pitches = append(l.Pitches, l.Pitches[0].Add(float64(a.NSemitones)))
		l.Harmonic = []bool{false, true}
	})
}

type StringContactPoint indicator.StringContactPoint

func (a StringContactPoint) Kind() string { return "string_contact_point" }
func (a StringContactPoint) Process(leaves []*Leaf, previous Attachment) []*Leaf {
	if previous == nil && a.ContactPoint == "ordinario" {
		return leaves
	}
	text := a.ContactPoint
	if p, ok := previous.(StringContactPoint); ok && p.ContactPoint == "pizzicato" && a.ContactPoint != "pizzicato" {
		text = "arco " + text
	}
	return toggle(a, previous, leaves, after(`^\markup { \fontsize #-2.4 \caps "`+text+`" }`))
}

type Pedal indicator.Pedal

var pedalCommands = map[string][2]string{
	"sustain":   {`\sustainOn`, `\sustainOff`},
	"sostenuto": {`\sostenutoOn`, `\sostenutoOff`},
	"corda":     {`\unaCorda`, `\treCorde`},
}

func (a Pedal) Kind() string { return "pedal" }
func (a Pedal) Process(leaves []*Leaf, previous Attachment) []*Leaf {
	if previous == nil && !a.Activity {
		return leaves
	}
	commands, ok := pedalCommands[a.Type]
	if !ok {
		debug.Warn("lilypond", "unknown pedal type %q", a.Type)
		return leaves
	}
	cmd := commands[1]
	if a.Activity {
		cmd = commands[0]
	}
	return toggle(a, previous, leaves, after(cmd))
}

type Hairpin indicator.Hairpin

func (a Hairpin) Kind() string { return "hairpin" }
func (a Hairpin) Process(leaves []*Leaf, previous Attachment) []*Leaf {
	return toggle(a, previous, leaves, after(`\`+a.Symbol))
}

type BartokPizzicato indicator.ExplicitPlayingIndicator

func (a BartokPizzicato) Kind() string { return "bartok_pizzicato" }
func (a BartokPizzicato) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, after(`\snappizzicato`))
}

type NaturalHarmonic indicator.ExplicitPlayingIndicator

func (a NaturalHarmonic) Kind() string { return "natural_harmonic" }
func (a NaturalHarmonic) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, after(`^\flageolet`))
}

type Prall indicator.ExplicitPlayingIndicator

func (a Prall) Kind() string { return "prall" }
func (a Prall) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, after(`^\prall`))
}

type Fermata indicator.Fermata

func (a Fermata) Kind() string { return "fermata" }
func (a Fermata) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, after(`\`+a.Type))
}

// Ornamentation draws NTimes in a box next to a wavy path.
type Ornamentation indicator.Ornamentation

func (a Ornamentation) Kind() string { return "ornamentation" }
func (a Ornamentation) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	curve := "(curveto 0.5 0 1.5 1.75 2.5 0)"
	if a.Direction == "down" {
		curve = "(curveto 0.5 0 1.5 -1.75 2.5 0)"
	}
	markup := fmt.Sprintf(`^\markup { \vcenter \fontsize #-4 \rounded-box { %d } \hspace #-0.4 \path #0.25 #'((moveto 0 0) (lineto 0.5 0) %s (lineto 3.5 0)) }`, a.NTimes, curve)
	return bangFirst(leaves, after(markup))
}

type Tie indicator.ExplicitPlayingIndicator

func (a Tie) Kind() string { return "tie" }
func (a Tie) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangLast(leaves, after("~"))
}

type LaissezVibrer indicator.ExplicitPlayingIndicator

func (a LaissezVibrer) Kind() string { return "laissez_vibrer" }
func (a LaissezVibrer) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangLast(leaves, after(`\laissezVibrer`))
}

type BarLine indicator.BarLine

func (a BarLine) Kind() string { return "bar_line" }
func (a BarLine) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangLast(leaves, after(fmt.Sprintf(`\bar "%s"`, a.Abbreviation)))
}

type Clef indicator.Clef

func (a Clef) Kind() string { return "clef" }
func (a Clef) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, before(fmt.Sprintf(`\clef "%s"`, a.Name)))
}

type Ottava indicator.Ottava

func (a Ottava) Kind() string { return "ottava" }
func (a Ottava) Process(leaves []*Leaf, previous Attachment) []*Leaf {
	if previous == nil && a.NOctaves == 0 {
		return leaves
	}
	return toggle(a, previous, leaves, before(fmt.Sprintf(`\ottava #%d`, a.NOctaves)))
}

type Markup indicator.Markup

func (a Markup) Kind() string { return "markup" }
func (a Markup) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, after(directionPrefix(a.Direction)+`\markup { `+a.Content+` }`))
}

type RehearsalMark indicator.RehearsalMark

func (a RehearsalMark) Kind() string { return "rehearsal_mark" }
func (a RehearsalMark) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, before(`\mark \markup { `+a.Markup+` }`))
}

type MarginMarkup indicator.MarginMarkup

func (a MarginMarkup) Kind() string { return "margin_markup" }
func (a MarginMarkup) Process(leaves []*Leaf, _ Attachment) []*Leaf {
	return bangFirst(leaves, before(fmt.Sprintf(`\set %s.instrumentName = \markup { %s }`, a.Context, a.Content)))
}

// Dynamic is written whenever it changes.
type Dynamic struct {
	Dynamic string
}

// NewDynamic spells a volume as the closest Western dynamic.
func NewDynamic(v volume.Volume) Dynamic {
	if wv, ok := v.(volume.WesternVolume); ok {
		return Dynamic{wv.Name}
	}
	db := volume.Decibel(v)
	best, bestDiff := volume.StandardDynamicIndicators[0], -1.0
	for _, name := range volume.StandardDynamicIndicators {
		diff := volume.WesternVolume{Name: name}.Decibel() - db
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = name, diff
		}
	}
	return Dynamic{best}
}

func (a Dynamic) Kind() string { return "dynamic" }
func (a Dynamic) Process(leaves []*Leaf, previous Attachment) []*Leaf {
	return toggle(a, previous, leaves, after(`\`+a.Dynamic))
}

// Tempo is a metronome mark, optionally with a text such as "Allegro".
type Tempo struct {
	Reference string
	BPM       float64
	Text      string
}

func (a Tempo) Kind() string { return "tempo" }
func (a Tempo) Process(leaves []*Leaf, previous Attachment) []*Leaf {
	reference := a.Reference
	if reference == "" {
		reference = "4"
	}
	mark := fmt.Sprintf(`\tempo %s = %s`, reference, formatBPM(a.BPM))
	if a.Text != "" {
		mark = fmt.Sprintf(`\tempo "%s" %s = %s`, a.Text, reference, formatBPM(a.BPM))
	}
	return toggle(a, previous, leaves, before(mark))
}

func formatBPM(bpm float64) string {
	s := fmt.Sprintf("%.2f", bpm)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s
}

// PlayingAttachments returns the active playing indicators as
// attachments, in collection order.
func PlayingAttachments(c *indicator.PlayingIndicatorCollection) []Attachment {
	if c == nil {
		return nil
	}
	var out []Attachment
	add := func(active bool, a Attachment) {
		if active {
			out = append(out, a)
		}
	}
	add(c.Articulation.IsActive(), Articulation(c.Articulation))
	add(c.ArtificalHarmonic.IsActive(), ArtificalHarmonic(c.ArtificalHarmonic))
	add(c.Arpeggio.IsActive(), Arpeggio(c.Arpeggio))
	add(c.BartokPizzicato.IsActive(), BartokPizzicato(c.BartokPizzicato))
	add(c.Fermata.IsActive(), Fermata(c.Fermata))
	add(c.Hairpin.IsActive(), Hairpin(c.Hairpin))
	add(c.NaturalHarmonic.IsActive(), NaturalHarmonic(c.NaturalHarmonic))
	add(c.LaissezVibrer.IsActive(), LaissezVibrer(c.LaissezVibrer))
	add(c.Ornamentation.IsActive(), Ornamentation(c.Ornamentation))
	add(c.Pedal.IsActive(), Pedal(c.Pedal))
	add(c.Prall.IsActive(), Prall(c.Prall))
	add(c.StringContactPoint.IsActive(), StringContactPoint(c.StringContactPoint))
	add(c.Tie.IsActive(), Tie(c.Tie))
	add(c.Tremolo.IsActive(), Tremolo(c.Tremolo))
	return out
}

// NotationAttachments returns the active notation indicators as
// attachments.
func NotationAttachments(c *indicator.NotationIndicatorCollection) []Attachment {
	if c == nil {
		return nil
	}
	var out []Attachment
	if c.Clef.IsActive() {
		out = append(out, Clef(c.Clef))
	}
	if c.MarginMarkup.IsActive() {
		out = append(out, MarginMarkup(c.MarginMarkup))
	}
	if c.RehearsalMark.IsActive() {
		out = append(out, RehearsalMark(c.RehearsalMark))
	}
	out = append(out, Ottava(c.Ottava))
	if c.Markup.IsActive() {
		out = append(out, Markup(c.Markup))
	}
	if c.BarLine.IsActive() {
		out = append(out, BarLine(c.BarLine))
	}
	return out
}
