package midi

import (
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn        uint8 = 0x90
	NoteOff       uint8 = 0x80
	CC            uint8 = 0xB0
	ProgramChange uint8 = 0xC0
	PitchBend     uint8 = 0xE0
)

// Event is a channel message at a point of the playback clock.
type Event struct {
	Time     time.Duration
	Type     uint8 // NoteOn, NoteOff, CC, ProgramChange, PitchBend
	Channel  uint8
	Note     uint8 // key, controller or program
	Velocity uint8 // velocity or controller value
	Bend     int16 // -8192..8191
}

// Message encodes e for sending.
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOffVelocity(e.Channel, e.Note, e.Velocity)
	case CC:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	case ProgramChange:
		return gomidi.ProgramChange(e.Channel, e.Note)
	case PitchBend:
		return gomidi.Pitchbend(e.Channel, e.Bend)
	}
	return nil
}

// FromMessage decodes the channel messages Event can hold.
func FromMessage(at time.Duration, msg gomidi.Message) (Event, bool) {
	e := Event{Time: at}
	var rel int16
	var abs uint16
	switch {
	case msg.GetNoteOff(&e.Channel, &e.Note, &e.Velocity):
		e.Type = NoteOff
	case msg.GetNoteStart(&e.Channel, &e.Note, &e.Velocity):
		e.Type = NoteOn
	case msg.GetNoteEnd(&e.Channel, &e.Note):
		e.Type = NoteOff
	case msg.GetControlChange(&e.Channel, &e.Note, &e.Velocity):
		e.Type = CC
	case msg.GetProgramChange(&e.Channel, &e.Note):
		e.Type = ProgramChange
	case msg.GetPitchBend(&e.Channel, &rel, &abs):
		e.Type = PitchBend
		e.Bend = rel
	default:
		return Event{}, false
	}
	return e, true
}
