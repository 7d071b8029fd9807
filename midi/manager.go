package midi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-mutwo/debug"
)

var ErrPortsTimeout = errors.New("midi driver did not answer")

// portsTimeout bounds a port scan (CoreMIDI can hang)
const portsTimeout = 3 * time.Second

// DeviceEvent is emitted when output ports appear or disappear
type DeviceEvent struct {
	Type DeviceEventType
	Port string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// OutPorts lists the names of all output ports.
func OutPorts() ([]string, error) {
	ch := make(chan []string, 1)
	go func() {
		var names []string
		for _, out := range gomidi.GetOutPorts() {
			names = append(names, out.String())
		}
		ch <- names
	}()

	select {
	case names := <-ch:
		return names, nil
	case <-time.After(portsTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrPortsTimeout
	}
}

// OpenOutput opens the output port whose name contains name. The
// returned function closes the port.
func OpenOutput(name string) (Sender, func() error, error) {
	out, err := gomidi.FindOutPort(name)
	if err != nil {
		return nil, nil, fmt.Errorf("find output %q: %w", name, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, nil, fmt.Errorf("open output %q: %w", out.String(), err)
	}
	debug.Log("midi", "opened output %s", out.String())
	return send, out.Close, nil
}

// DeviceManager handles hot-plug detection of MIDI outputs
type DeviceManager struct {
	ports    map[string]bool
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration
	// listPorts is replaced in tests
	listPorts func() ([]string, error)
}

// NewDeviceManager creates a new device manager
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		ports:     make(map[string]bool),
		events:    make(chan DeviceEvent, 16),
		pollRate:  time.Second,
		listPorts: OutPorts,
	}
}

// Events returns a channel of device connect/disconnect events. It is
// closed when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Ports returns a sorted snapshot of connected outputs
func (dm *DeviceManager) Ports() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.ports))
	for name := range dm.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()
	defer close(dm.events)

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	names, err := dm.listPorts()
	if err != nil {
		// skip this scan
		debug.LogEvery(10, "midi", "scan ports: %v", err)
		return
	}

	seen := make(map[string]bool, len(names))
	var changes []DeviceEvent

	dm.mu.Lock()
	for _, name := range names {
		seen[name] = true
		if !dm.ports[name] {
			dm.ports[name] = true
			changes = append(changes, DeviceEvent{Type: DeviceConnected, Port: name})
		}
	}
	for name := range dm.ports {
		if !seen[name] {
			delete(dm.ports, name)
			changes = append(changes, DeviceEvent{Type: DeviceDisconnected, Port: name})
		}
	}
	dm.mu.Unlock()

	for _, ev := range changes {
		debug.Log("midi", "%s %s", ev.Port, ev.Type)
		select {
		case dm.events <- ev:
		default:
			debug.Warn("midi", "device event for %s dropped", ev.Port)
		}
	}
}
