// Package player sounds chords: live through a MIDI output port, into a
// Standard MIDI File, or into the log.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Player sounds a chord given its MIDI pitches.
type Player interface {
	Play(ctx context.Context, pitches []int) error
}

// DefaultTranspose is added to every database pitch before it is sounded.
// The database pitches come out one semitone low against the voices this
// was tuned on; it stays configurable until that is settled.
const DefaultTranspose = 1

// Options shape how a chord is sounded.
type Options struct {
	Transpose int
	Channel   uint8
	Velocity  uint8
	Duration  time.Duration // how long notes ring before NoteOff
	Strum     time.Duration // gap between successive NoteOns, 0 = block chord
}

func DefaultOptions() Options {
	return Options{
		Transpose: DefaultTranspose,
		Velocity:  100,
		Duration:  1500 * time.Millisecond,
	}
}

// Notes applies the transpose and checks every pitch is a valid MIDI key.
func (o Options) Notes(pitches []int) ([]uint8, error) {
	out := make([]uint8, 0, len(pitches))
	for _, p := range pitches {
		k := p + o.Transpose
		if k < 0 || k > 127 {
			return nil, fmt.Errorf("player: pitch %d (transposed %d) outside MIDI range", p, k)
		}
		out = append(out, uint8(k))
	}
	return out, nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchName renders a MIDI pitch in scientific notation, 60 -> "C4".
func PitchName(pitch int) string {
	if pitch < 0 {
		return fmt.Sprintf("?\"%d\"", pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], (pitch/12)-1)
}

// PitchNames renders a chord, e.g. "C3 E3 G3".
func PitchNames(pitches []int) string {
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = PitchName(p)
	}
	return strings.Join(names, " ")
}

// LogPlayer only logs what it would have sounded.
type LogPlayer struct {
	Opts   Options
	Logger *slog.Logger
}

func (l *LogPlayer) Play(ctx context.Context, pitches []int) error {
	notes, err := l.Opts.Notes(pitches)
	if err != nil {
		return err
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sounded := make([]int, len(notes))
	for i, n := range notes {
		sounded[i] = int(n)
	}
	logger.Info("player: chord", "pitches", PitchNames(pitches), "sounded", PitchNames(sounded), "transpose", l.Opts.Transpose)
	return nil
}
