// Package indicator holds playing techniques and notation hints that can
// be attached to notes.
package indicator

// Indicator is active when it should be applied.
type Indicator interface {
	IsActive() bool
}

// Named pairs an indicator with its snake case field name.
type Named struct {
	Name      string
	Indicator Indicator
}

// ExplicitPlayingIndicator is switched on and off by hand.
type ExplicitPlayingIndicator struct {
	Active bool `json:"active" yaml:"active" toml:"active"`
}

func (i ExplicitPlayingIndicator) IsActive() bool { return i.Active }

type Tremolo struct {
	NFlags int `json:"n_flags,omitempty" yaml:"n_flags,omitempty" toml:"n_flags,omitempty"`
}

func (i Tremolo) IsActive() bool { return i.NFlags > 0 }

type Articulation struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

func (i Articulation) IsActive() bool { return i.Name != "" }

type Arpeggio struct {
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
}

func (i Arpeggio) IsActive() bool { return i.Direction != "" }

// Pedal is pressed while Activity is true.
type Pedal struct {
	Type     string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Activity bool   `json:"activity" yaml:"activity" toml:"activity"`
}

func (i Pedal) IsActive() bool { return i.Type != "" }

type StringContactPoint struct {
	ContactPoint string `json:"contact_point,omitempty" yaml:"contact_point,omitempty" toml:"contact_point,omitempty"`
}

func (i StringContactPoint) IsActive() bool { return i.ContactPoint != "" }

type Ornamentation struct {
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	NTimes    int    `json:"n_times" yaml:"n_times" toml:"n_times"`
}

func (i Ornamentation) IsActive() bool { return i.Direction != "" && i.NTimes > 0 }

type ArtificalHarmonic struct {
	NSemitones int `json:"n_semitones,omitempty" yaml:"n_semitones,omitempty" toml:"n_semitones,omitempty"`
}

func (i ArtificalHarmonic) IsActive() bool { return i.NSemitones != 0 }

type Fermata struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

func (i Fermata) IsActive() bool { return i.Type != "" }

// Hairpin symbols are "<", ">" and "!" (stop).
type Hairpin struct {
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty" toml:"symbol,omitempty"`
}

func (i Hairpin) IsActive() bool { return i.Symbol != "" }

// PlayingIndicatorCollection holds every playing indicator of a note.
type PlayingIndicatorCollection struct {
	Articulation       Articulation             `json:"articulation" yaml:"articulation" toml:"articulation"`
	ArtificalHarmonic  ArtificalHarmonic        `json:"artifical_harmonic" yaml:"artifical_harmonic" toml:"artifical_harmonic"`
	Arpeggio           Arpeggio                 `json:"arpeggio" yaml:"arpeggio" toml:"arpeggio"`
	BartokPizzicato    ExplicitPlayingIndicator `json:"bartok_pizzicato" yaml:"bartok_pizzicato" toml:"bartok_pizzicato"`
	Fermata            Fermata                  `json:"fermata" yaml:"fermata" toml:"fermata"`
	Hairpin            Hairpin                  `json:"hairpin" yaml:"hairpin" toml:"hairpin"`
	NaturalHarmonic    ExplicitPlayingIndicator `json:"natural_harmonic" yaml:"natural_harmonic" toml:"natural_harmonic"`
	LaissezVibrer      ExplicitPlayingIndicator `json:"laissez_vibrer" yaml:"laissez_vibrer" toml:"laissez_vibrer"`
	Ornamentation      Ornamentation            `json:"ornamentation" yaml:"ornamentation" toml:"ornamentation"`
	Pedal              Pedal                    `json:"pedal" yaml:"pedal" toml:"pedal"`
	Prall              ExplicitPlayingIndicator `json:"prall" yaml:"prall" toml:"prall"`
	StringContactPoint StringContactPoint       `json:"string_contact_point" yaml:"string_contact_point" toml:"string_contact_point"`
	Tie                ExplicitPlayingIndicator `json:"tie" yaml:"tie" toml:"tie"`
	Tremolo            Tremolo                  `json:"tremolo" yaml:"tremolo" toml:"tremolo"`
}

// NewPlayingIndicatorCollection returns a collection with nothing active.
func NewPlayingIndicatorCollection() *PlayingIndicatorCollection {
	return &PlayingIndicatorCollection{
		Ornamentation: Ornamentation{NTimes: 1},
		Pedal:         Pedal{Activity: true},
	}
}

// All lists the indicators in field order.
func (c *PlayingIndicatorCollection) All() []Named {
	return []Named{
		{"articulation", c.Articulation},
		{"artifical_harmonic", c.ArtificalHarmonic},
		{"arpeggio", c.Arpeggio},
		{"bartok_pizzicato", c.BartokPizzicato},
		{"fermata", c.Fermata},
		{"hairpin", c.Hairpin},
		{"natural_harmonic", c.NaturalHarmonic},
		{"laissez_vibrer", c.LaissezVibrer},
		{"ornamentation", c.Ornamentation},
		{"pedal", c.Pedal},
		{"prall", c.Prall},
		{"string_contact_point", c.StringContactPoint},
		{"tie", c.Tie},
		{"tremolo", c.Tremolo},
	}
}

// Get looks an indicator up by its snake case name.
func (c *PlayingIndicatorCollection) Get(name string) (Indicator, bool) {
	return lookup(c.All(), name)
}

// Active lists the names of all active indicators.
func (c *PlayingIndicatorCollection) Active() []string {
	return activeNames(c.All())
}

func (c *PlayingIndicatorCollection) Copy() any {
	out := *c
	return &out
}

func (c *PlayingIndicatorCollection) Equal(o *PlayingIndicatorCollection) bool {
	if c == nil || o == nil {
		return c == o
	}
	return *c == *o
}

func lookup(all []Named, name string) (Indicator, bool) {
	for _, n := range all {
		if n.Name == name {
			return n.Indicator, true
		}
	}
	return nil, false
}

func activeNames(all []Named) []string {
	var out []string
	for _, n := range all {
		if n.Indicator.IsActive() {
			out = append(out, n.Name)
		}
	}
	return out
}
