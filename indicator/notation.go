package indicator

type BarLine struct {
	Abbreviation string `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty" toml:"abbreviation,omitempty"`
}

func (i BarLine) IsActive() bool { return i.Abbreviation != "" }

type Clef struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

func (i Clef) IsActive() bool { return i.Name != "" }

// Ottava shifts the notation by NOctaves. Zero is a valid (reset) value.
type Ottava struct {
	NOctaves int `json:"n_octaves" yaml:"n_octaves" toml:"n_octaves"`
}

func (i Ottava) IsActive() bool { return true }

type MarginMarkup struct {
	Content string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Context string `json:"context,omitempty" yaml:"context,omitempty" toml:"context,omitempty"`
}

func (i MarginMarkup) IsActive() bool { return i.Content != "" && i.Context != "" }

type Markup struct {
	Content   string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
}

func (i Markup) IsActive() bool { return i.Content != "" && i.Direction != "" }

type RehearsalMark struct {
	Markup string `json:"markup,omitempty" yaml:"markup,omitempty" toml:"markup,omitempty"`
}

func (i RehearsalMark) IsActive() bool { return i.Markup != "" }

// NotationIndicatorCollection holds every notation indicator of a note.
type NotationIndicatorCollection struct {
	BarLine       BarLine       `json:"bar_line" yaml:"bar_line" toml:"bar_line"`
	Clef          Clef          `json:"clef" yaml:"clef" toml:"clef"`
	Ottava        Ottava        `json:"ottava" yaml:"ottava" toml:"ottava"`
	MarginMarkup  MarginMarkup  `json:"margin_markup" yaml:"margin_markup" toml:"margin_markup"`
	Markup        Markup        `json:"markup" yaml:"markup" toml:"markup"`
	RehearsalMark RehearsalMark `json:"rehearsal_mark" yaml:"rehearsal_mark" toml:"rehearsal_mark"`
}

func NewNotationIndicatorCollection() *NotationIndicatorCollection {
	return &NotationIndicatorCollection{MarginMarkup: MarginMarkup{Context: "Staff"}}
}

func (c *NotationIndicatorCollection) All() []Named {
	return []Named{
		{"bar_line", c.BarLine},
		{"clef", c.Clef},
		{"ottava", c.Ottava},
		{"margin_markup", c.MarginMarkup},
		{"markup", c.Markup},
		{"rehearsal_mark", c.RehearsalMark},
	}
}

func (c *NotationIndicatorCollection) Get(name string) (Indicator, bool) {
	return lookup(c.All(), name)
}

func (c *NotationIndicatorCollection) Active() []string {
	return activeNames(c.All())
}

func (c *NotationIndicatorCollection) Copy() any {
	out := *c
	return &out
}

func (c *NotationIndicatorCollection) Equal(o *NotationIndicatorCollection) bool {
	if c == nil || o == nil {
		return c == o
	}
	return *c == *o
}
