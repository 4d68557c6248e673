package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// PreferredPatterns: outputs matching any of these are picked first.
var PreferredPatterns = []string{"FluidSynth", "TiMidity", "Synth"}

// ExcludedPatterns: virtual/system ports that are never auto-selected.
var ExcludedPatterns = []string{"Midi Through", "Through Port", "Dummy"}

// MIDIOut sounds chords on a MIDI output port through rtmidi.
type MIDIOut struct {
	mu     sync.Mutex
	drv    *rtmididrv.Driver
	out    drivers.Out
	send   func(midi.Message) error
	name   string
	opts   Options
	logger *slog.Logger
}

// OpenMIDIOut opens an output port. A non-empty port selects the first
// output whose name contains it; otherwise a preferred synth is picked, or
// the only output when there is just one.
func OpenMIDIOut(port string, opts Options, logger *slog.Logger) (*MIDIOut, error) {
	if logger == nil {
		logger = slog.Default()
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	m := &MIDIOut{drv: drv, opts: opts, logger: logger}
	if err := m.open(port); err != nil {
		drv.Close()
		return nil, err
	}
	return m, nil
}

// Name is the connected port's name.
func (m *MIDIOut) Name() string {
	return m.name
}

// ListOutputs returns the names of every output port, excluded ones too.
func ListOutputs() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()
	outs, err := drv.Outs()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.String()
	}
	return names, nil
}

func (m *MIDIOut) open(port string) error {
	outs, err := m.drv.Outs()
	if err != nil {
		return fmt.Errorf("midi: list outputs: %w", err)
	}
	names := make([]string, 0, len(outs))
	for _, o := range outs {
		names = append(names, o.String())
	}
	cand, ok := pickOutput(names, port)
	if !ok {
		return fmt.Errorf("midi: no usable output (want %q, have %s)", port, strings.Join(names, ", "))
	}
	var found drivers.Out
	for _, o := range outs {
		if o.String() == cand {
			found = o
			break
		}
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", cand, err)
	}
	send, err := midi.SendTo(found)
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("send %q: %w", cand, err)
	}
	m.out = found
	m.send = send
	m.name = cand
	m.logger.Info("midi: output connected", "device", cand)
	return nil
}

// pickOutput applies the explicit pattern first, then the preferred list,
// then falls back to a lone candidate.
func pickOutput(names []string, port string) (string, bool) {
	var usable []string
	for _, n := range names {
		excluded := false
		for _, pat := range ExcludedPatterns {
			if containsCI(n, pat) {
				excluded = true
				break
			}
		}
		if !excluded {
			usable = append(usable, n)
		}
	}
	if port != "" {
		for _, n := range names {
			if containsCI(n, port) {
				return n, true
			}
		}
		return "", false
	}
	for _, pat := range PreferredPatterns {
		for _, n := range usable {
			if containsCI(n, pat) {
				return n, true
			}
		}
	}
	if len(usable) == 1 {
		return usable[0], true
	}
	return "", false
}

// Play sends a NoteOn for every pitch, waits for the ring time (or ctx) and
// releases them all.
func (m *MIDIOut) Play(ctx context.Context, pitches []int) error {
	notes, err := m.opts.Notes(pitches)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.send == nil {
		return fmt.Errorf("midi: output closed")
	}
	m.logger.Debug("midi: play", "device", m.name, "pitches", PitchNames(pitches))
	return playNotes(ctx, m.send, notes, m.opts)
}

func playNotes(ctx context.Context, send func(midi.Message) error, notes []uint8, opts Options) error {
	var sent []uint8
	// NoteOffs go out even when ctx is cancelled so nothing hangs.
	defer func() {
		for _, n := range sent {
			_ = send(midi.NoteOff(opts.Channel, n))
		}
	}()
	for i, n := range notes {
		if i > 0 && opts.Strum > 0 {
			if err := sleep(ctx, opts.Strum); err != nil {
				return err
			}
		}
		if err := send(midi.NoteOn(opts.Channel, n, opts.Velocity)); err != nil {
			return fmt.Errorf("midi: note on %s: %w", PitchName(int(n)), err)
		}
		sent = append(sent, n)
	}
	return sleep(ctx, opts.Duration)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close releases the port and the rtmidi driver.
func (m *MIDIOut) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.send = nil
	if m.out != nil {
		_ = m.out.Close()
		m.out = nil
	}
	m.logger.Info("midi: output closed", "device", m.name)
	return m.drv.Close()
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
