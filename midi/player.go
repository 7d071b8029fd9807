package midi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-mutwo/debug"
)

var ErrPlaying = errors.New("player is already playing")

// Sender delivers a message to an output port.
type Sender func(msg gomidi.Message) error

type noteKey struct {
	channel, note uint8
}

// Player sends scheduled events in real time.
type Player struct {
	send Sender

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	playing atomic.Bool
	// position is the time of the last sent event
	position atomic.Int64
}

// NewPlayer creates a player that sends through send.
func NewPlayer(send Sender) *Player {
	return &Player{send: send}
}

// Playing reports whether a Start is running.
func (p *Player) Playing() bool {
	return p.playing.Load()
}

// Position returns the time of the last event that was sent.
func (p *Player) Position() time.Duration {
	return time.Duration(p.position.Load())
}

// Play blocks until all events are sent or ctx is done. Notes still
// sounding when it returns are switched off.
func (p *Player) Play(ctx context.Context, events []Event) error {
	hanging := make(map[noteKey]struct{})
	defer p.release(hanging)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	start := time.Now()
	p.position.Store(0)
	for i, e := range events {
		if wait := e.Time - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		msg := e.Message()
		if msg == nil {
			continue
		}
		if err := p.send(msg); err != nil {
			return fmt.Errorf("send event %d: %w", i, err)
		}
		key := noteKey{e.Channel, e.Note}
		switch {
		case e.Type == NoteOn && e.Velocity > 0:
			hanging[key] = struct{}{}
		case e.Type == NoteOn || e.Type == NoteOff:
			delete(hanging, key)
		}
		p.position.Store(int64(e.Time))
	}
	return nil
}

func (p *Player) release(hanging map[noteKey]struct{}) {
	for key := range hanging {
		if err := p.send(gomidi.NoteOff(key.channel, key.note)); err != nil {
			debug.Warn("midi", "note off %d on channel %d: %v", key.note, key.channel, err)
		}
	}
	if len(hanging) > 0 {
		debug.Log("midi", "released %d hanging notes", len(hanging))
	}
}

// Start plays events in the background until they are done, ctx is
// done or Stop is called.
func (p *Player) Start(ctx context.Context, events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing.Load() {
		return ErrPlaying
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.err = nil
	p.playing.Store(true)

	go func() {
		defer close(done)
		defer cancel()
		err := p.Play(ctx, events)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		p.playing.Store(false)
	}()
	return nil
}

// Stop cancels a running Start and waits until its notes are released.
func (p *Player) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	return p.wait(done)
}

// Wait blocks until a running Start is finished.
func (p *Player) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	return p.wait(done)
}

func (p *Player) wait(done chan struct{}) error {
	<-done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
