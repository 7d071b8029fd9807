package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-mutwo/converter/midifile"
	"go-mutwo/midi"
	"go-mutwo/pitch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "bend":
		if len(os.Args) < 3 {
			usage()
			return
		}
		testBend(os.Args[2])
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list         - List all MIDI ports")
	fmt.Println("  bend <port>  - Play a 4:5:6:7 chord with pitch bends")
	fmt.Println("  poll         - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	outs, err := midi.OutPorts()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range gomidi.GetInPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

// testBend tunes a just chord over c4, one channel per tone, so the
// bends don't interfere.
func testBend(port string) {
	send, closePort, err := midi.OpenOutput(port)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer closePort()

	root := pitch.MustWesternPitch("c", 4).Frequency()
	for i, ratio := range []string{"1", "5/4", "3/2", "7/4"} {
		p := pitch.MustJustIntonationPitch(ratio)
		p.ConcertPitch = root
		key, bend := midifile.Tune(p, midifile.DefaultMaxPitchBendDeviation)
		ch := uint8(i)
		fmt.Printf("  %-4s -> key %d, bend %+d (%.1f cents)\n", ratio, key, bend,
			100*(pitch.MidiPitchNumber(p)-float64(key)))
		send(gomidi.Pitchbend(ch, bend))
		send(gomidi.NoteOn(ch, key, 90))
		time.Sleep(400 * time.Millisecond)
	}

	fmt.Println("Holding... press Enter to stop")
	fmt.Scanln()

	for ch := uint8(0); ch < 4; ch++ {
		send(gomidi.ControlChange(ch, 123, 0)) // all notes off
		send(gomidi.Pitchbend(ch, 0))
	}
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Polling for output changes every second...")
	fmt.Println("Connect/disconnect a synth to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dm := midi.NewDeviceManager()
	go dm.Run(ctx)
	for ev := range dm.Events() {
		fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), ev.Port, ev.Type)
		fmt.Printf("  Outputs: %v\n", dm.Ports())
	}
}
