package player

import (
	"context"
	"fmt"
	"io"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	smfResolution = 96
	smfBPM        = 120.0
)

// SMFWriter records each chord as a Standard MIDI File on W.
type SMFWriter struct {
	W     io.Writer
	Title string
	Opts  Options
}

func (s *SMFWriter) Play(ctx context.Context, pitches []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteSMF(s.W, s.Title, pitches, s.Opts)
}

// durationTicks converts a ring time to ticks at the file's fixed tempo.
func durationTicks(d time.Duration) uint32 {
	beats := d.Seconds() * smfBPM / 60
	ticks := uint32(beats * smfResolution)
	if ticks == 0 {
		ticks = smfResolution
	}
	return ticks
}

// WriteSMF writes a single-track file: all notes on at tick 0 (or spread by
// the strum gap), all off after the ring time.
func WriteSMF(w io.Writer, title string, pitches []int, opts Options) error {
	notes, err := opts.Notes(pitches)
	if err != nil {
		return err
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(smfResolution)

	var tr smf.Track
	if title != "" {
		tr.Add(0, smf.MetaTrackSequenceName(title))
	}
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(smfBPM))

	strum := uint32(0)
	if opts.Strum > 0 {
		strum = durationTicks(opts.Strum)
	}
	for i, n := range notes {
		delta := uint32(0)
		if i > 0 {
			delta = strum
		}
		tr.Add(delta, midi.NoteOn(opts.Channel, n, opts.Velocity))
	}
	for i, n := range notes {
		delta := uint32(0)
		if i == 0 {
			delta = durationTicks(opts.Duration)
		}
		tr.Add(delta, midi.NoteOff(opts.Channel, n))
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("smf: add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("smf: write: %w", err)
	}
	return nil
}
