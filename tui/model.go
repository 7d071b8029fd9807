package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-mutwo/event"
	"go-mutwo/midi"
	"go-mutwo/tempo"
	"go-mutwo/theme"
	"go-mutwo/widgets"
)

const (
	frameRate   = 50 * time.Millisecond
	defaultZoom = 0.25
	minZoom     = 1.0 / 64
	maxZoom     = 16
	// rows taken by header, status and help
	chromeHeight = 6
)

// Options configures the viewer. Without a Player playback is disabled.
type Options struct {
	Title   string
	Tempo   tempo.TempoEnvelope
	Player  *midi.Player
	Events  []midi.Event
	Devices *midi.DeviceManager
}

type Model struct {
	opts  Options
	Theme *theme.Theme

	notes    []widgets.RollNote
	voices   int
	duration float64
	clock    *tempo.Converter

	start, zoom float64
	lowKey      int
	width       int
	height      int

	keys     keyMap
	help     help.Model
	showHelp bool
	ports    []string
	status   string
	quitting bool
}

type tickMsg time.Time

type DeviceEventMsg midi.DeviceEvent

func NewModel(score event.Event, opts Options, th *theme.Theme) (Model, error) {
	notes, voices, err := widgets.RollNotes(score)
	if err != nil {
		return Model{}, err
	}
	if len(opts.Tempo.Points) == 0 {
		opts.Tempo = tempo.DefaultTempoEnvelope()
	}
	lo, hi := widgets.KeyRange(notes)
	m := Model{
		opts:     opts,
		Theme:    th,
		notes:    notes,
		voices:   voices,
		duration: score.Duration(),
		clock:    tempo.NewConverter(opts.Tempo),
		zoom:     defaultZoom,
		width:    80,
		height:   24,
		keys:     defaultKeys(),
		help:     help.New(),
	}
	m.keys.Play.SetEnabled(opts.Player != nil)
	// center the used range
	m.lowKey = max((lo+hi)/2-m.rollHeight()/2, 0)
	return m, nil
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(ev)
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if m.opts.Devices == nil {
		return nil
	}
	return ListenForDevices(m.opts.Devices)
}

func (m Model) rollWidth() int  { return max(m.width-6, 1) }
func (m Model) rollHeight() int { return max(m.height-chromeHeight, 1) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.playing() {
			m.follow()
			return m, tick()
		}
		m.status = "stopped"

	case DeviceEventMsg:
		ev := midi.DeviceEvent(msg)
		m.status = fmt.Sprintf("%s %s", ev.Port, ev.Type)
		m.ports = m.opts.Devices.Ports()
		return m, ListenForDevices(m.opts.Devices)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.zoom * float64(m.rollWidth()) / 4
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.opts.Player != nil {
			m.opts.Player.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.start = max(m.start-step, 0)

	case key.Matches(msg, m.keys.Right):
		m.start = min(m.start+step, max(m.duration-step, 0))

	case key.Matches(msg, m.keys.Up):
		m.lowKey = min(m.lowKey+1, 127-m.rollHeight()+1)

	case key.Matches(msg, m.keys.Down):
		m.lowKey = max(m.lowKey-1, 0)

	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom = max(m.zoom/2, minZoom)

	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom = min(m.zoom*2, maxZoom)

	case key.Matches(msg, m.keys.Home):
		m.start = 0

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Play):
		return m.togglePlay()
	}
	return m, nil
}

func (m Model) playing() bool {
	return m.opts.Player != nil && m.opts.Player.Playing()
}

func (m Model) togglePlay() (tea.Model, tea.Cmd) {
	if m.playing() {
		if err := m.opts.Player.Stop(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "stopped"
		}
		return m, nil
	}
	if err := m.opts.Player.Start(context.Background(), m.opts.Events); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = "playing"
	return m, tick()
}

// follow scrolls so the playhead stays visible.
func (m *Model) follow() {
	beat := m.playhead()
	visible := m.zoom * float64(m.rollWidth())
	if beat < m.start || beat >= m.start+visible {
		m.start = beat
	}
}

// playhead converts the player position back to beats.
func (m Model) playhead() float64 {
	if !m.playing() {
		return -1
	}
	return beatAt(m.clock, m.opts.Player.Position().Seconds(), m.duration)
}

// beatAt inverts the tempo converter by bisection.
func beatAt(c *tempo.Converter, seconds, duration float64) float64 {
	lo, hi := 0.0, max(duration, 1)
	for c.Time(hi) < seconds {
		hi *= 2
	}
	for range 50 {
		mid := (lo + hi) / 2
		if c.Time(mid) < seconds {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := m.Theme.Symbols.Stopped
	if m.playing() {
		playState = m.Theme.Symbols.Playing
	}
	title := m.opts.Title
	if title == "" {
		title = "go-mutwo"
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %c  %3.0fbpm  beat %.2f-%.2f of %.2f",
		title, playState, m.opts.Tempo.BPMAt(m.start), m.start,
		m.start+m.zoom*float64(m.rollWidth()), m.duration))

	roll := widgets.PianoRoll{
		Notes:    m.notes,
		Start:    m.start,
		Zoom:     m.zoom,
		LowKey:   m.lowKey,
		Width:    m.rollWidth(),
		Height:   m.rollHeight(),
		Playhead: m.playhead(),
	}

	var ports []string
	for _, p := range m.ports {
		ports = append(ports, fmt.Sprintf("%c %s", m.Theme.Symbols.Port, p))
	}
	status := dimStyle.Render(strings.Join(append(ports, m.status), "  "))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(roll.Render(m.Theme, m.voices))
	out.WriteString("\n")
	out.WriteString(status)
	out.WriteString("\n")
	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(m.keys.sections())))
	} else {
		out.WriteString(m.help.View(m.keys))
	}
	return out.String()
}
