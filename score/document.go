// Package score reads and writes event trees as JSON, YAML or TOML
// documents and keeps timestamped saves of them in projects.
package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"

	"go-mutwo/event"
	"go-mutwo/indicator"
	"go-mutwo/music"
	"go-mutwo/tempo"
)

var ErrInvalidNode = errors.New("invalid score node")

// Node types.
const (
	TypeSimple       = "simple"
	TypeSequential   = "sequential"
	TypeSimultaneous = "simultaneous"
	TypeNote         = "note"
)

// Node is one event of the tree. Pitch holds space separated pitch
// names as read by music.ParsePitches.
type Node struct {
	Type     string         `json:"type" yaml:"type" toml:"type"`
	Tag      string         `json:"tag,omitempty" yaml:"tag,omitempty" toml:"tag,omitempty"`
	Duration float64        `json:"duration,omitempty" yaml:"duration,omitempty" toml:"duration,omitempty"`
	Pitch    string         `json:"pitch,omitempty" yaml:"pitch,omitempty" toml:"pitch,omitempty"`
	Volume   any            `json:"volume,omitempty" yaml:"volume,omitempty" toml:"volume,omitempty"`
	Playing  map[string]any `json:"playing,omitempty" yaml:"playing,omitempty" toml:"playing,omitempty"`
	Notation map[string]any `json:"notation,omitempty" yaml:"notation,omitempty" toml:"notation,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Children []Node         `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Tempo is a tempo envelope as stored in documents.
type Tempo struct {
	Points    []tempo.TempoPoint `json:"points" yaml:"points" toml:"points"`
	Durations []float64          `json:"durations,omitempty" yaml:"durations,omitempty" toml:"durations,omitempty"`
	Shapes    []float64          `json:"shapes,omitempty" yaml:"shapes,omitempty" toml:"shapes,omitempty"`
}

// Document is a named event tree with its tempo.
type Document struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Tempo *Tempo `json:"tempo,omitempty" yaml:"tempo,omitempty" toml:"tempo,omitempty"`
	Root  Node   `json:"root" yaml:"root" toml:"root"`
}

// NewDocument wraps ev in a document with a fresh id.
func NewDocument(name string, ev event.Event) (*Document, error) {
	root, err := FromEvent(ev)
	if err != nil {
		return nil, err
	}
	return &Document{ID: uuid.NewString(), Name: name, Root: root}, nil
}

// SetTempo stores env in the document.
func (d *Document) SetTempo(env tempo.TempoEnvelope) {
	d.Tempo = &Tempo{Points: env.Points, Durations: env.Durations, Shapes: env.CurveShapes}
}

// TempoEnvelope returns the stored tempo, or the default tempo.
func (d *Document) TempoEnvelope() (tempo.TempoEnvelope, error) {
	if d.Tempo == nil || len(d.Tempo.Points) == 0 {
		return tempo.DefaultTempoEnvelope(), nil
	}
	if len(d.Tempo.Points) == 1 {
		return tempo.ConstantTempo(d.Tempo.Points[0].AbsoluteBPM()), nil
	}
	return tempo.NewTempoEnvelope(d.Tempo.Points, d.Tempo.Durations, d.Tempo.Shapes)
}

// Event builds the event tree.
func (d *Document) Event() (event.Event, error) {
	return ToEvent(d.Root)
}

// ToEvent builds the event described by n.
func ToEvent(n Node) (event.Event, error) {
	switch n.Type {
	case TypeSequential, TypeSimultaneous:
		children := make([]event.Event, len(n.Children))
		for i, c := range n.Children {
			ev, err := ToEvent(c)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			children[i] = ev
		}
		if n.Type == TypeSequential {
			return event.NewTaggedSequentialEvent(n.Tag, children...), nil
		}
		sim := event.NewSimultaneousEvent(children...)
		sim.Tag = n.Tag
		return sim, nil
	case TypeSimple:
		e := event.NewTaggedSimpleEvent(n.Tag, 0)
		if err := e.SetDuration(n.Duration); err != nil {
			return nil, err
		}
		if err := setParams(e, n.Params); err != nil {
			return nil, err
		}
		return e, nil
	case TypeNote:
		return toNote(n)
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidNode, n.Type)
}

func toNote(n Node) (*music.NoteLike, error) {
	var pitches any
	if n.Pitch != "" {
		pitches = n.Pitch
	}
	note, err := music.NewNoteLike(pitches, n.Duration, n.Volume)
	if err != nil {
		return nil, err
	}
	note.Tag = n.Tag
	if err := mergeInto(note.PlayingIndicators, n.Playing); err != nil {
		return nil, fmt.Errorf("%w: playing indicators: %v", ErrInvalidNode, err)
	}
	if err := mergeInto(note.NotationIndicators, n.Notation); err != nil {
		return nil, fmt.Errorf("%w: notation indicators: %v", ErrInvalidNode, err)
	}
	if err := setParams(note, n.Params); err != nil {
		return nil, err
	}
	return note, nil
}

func setParams(ev event.Event, params map[string]any) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ev.SetParameter(name, params[name], true); err != nil {
			return fmt.Errorf("param %s: %w", name, err)
		}
	}
	return nil
}

// mergeInto overlays the given fields on a collection that already
// holds its defaults. The detour through JSON gives every format the
// same field names.
func mergeInto(collection any, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, collection)
}

// activeFields returns the active indicators of a collection as plain
// maps.
func activeFields(all []indicator.Named) (map[string]any, error) {
	out := map[string]any{}
	for _, n := range all {
		if !n.Indicator.IsActive() {
			continue
		}
		if o, ok := n.Indicator.(indicator.Ottava); ok && o.NOctaves == 0 {
			continue
		}
		data, err := json.Marshal(n.Indicator)
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		out[n.Name] = fields
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// FromEvent describes ev as a node.
func FromEvent(ev event.Event) (Node, error) {
	switch e := ev.(type) {
	case *event.SequentialEvent:
		return containerNode(TypeSequential, e.Tag, e.Children())
	case *event.SimultaneousEvent:
		return containerNode(TypeSimultaneous, e.Tag, e.Children())
	case *music.NoteLike:
		return noteNode(e)
	case *event.SimpleEvent:
		return Node{Type: TypeSimple, Tag: e.Tag, Duration: e.Duration(), Params: plainParams(e.Params)}, nil
	}
	return Node{}, fmt.Errorf("%w: can't store %T", ErrInvalidNode, ev)
}

func containerNode(kind, tag string, children []event.Event) (Node, error) {
	n := Node{Type: kind, Tag: tag, Children: make([]Node, len(children))}
	for i, c := range children {
		child, err := FromEvent(c)
		if err != nil {
			return Node{}, err
		}
		n.Children[i] = child
	}
	return n, nil
}

func noteNode(e *music.NoteLike) (Node, error) {
	names := make([]string, len(e.Pitches))
	for i, p := range e.Pitches {
		names[i] = music.FormatPitch(p)
	}
	n := Node{
		Type:     TypeNote,
		Tag:      e.Tag,
		Duration: e.Duration(),
		Pitch:    strings.Join(names, " "),
		Params:   plainParams(e.Params),
	}
	if e.Volume != nil {
		n.Volume = music.FormatVolume(e.Volume)
	}
	var err error
	if e.PlayingIndicators != nil {
		if n.Playing, err = activeFields(e.PlayingIndicators.All()); err != nil {
			return Node{}, err
		}
	}
	if e.NotationIndicators != nil {
		if n.Notation, err = activeFields(e.NotationIndicators.All()); err != nil {
			return Node{}, err
		}
	}
	return n, nil
}

// plainParams keeps the parameters every format can store.
func plainParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		switch reflect.ValueOf(v).Kind() {
		case reflect.String, reflect.Bool, reflect.Int, reflect.Int64, reflect.Float64, reflect.Slice, reflect.Map:
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
