package chorddb

import (
	"fmt"
	"slices"
)

const (
	NumStrings = 6
	Muted      = -1
	OpenString = 0
)

// StandardTuning is the MIDI pitch of each open string, low to high:
// E2(40) A2(45) D3(50) G3(55) B3(59) E4(64)
var StandardTuning = [NumStrings]int{40, 45, 50, 55, 59, 64}

// Position is one fingering of a chord. Frets and Fingers run from the low E
// string (index 0) to the high E string (index 5). Fret numbers are relative
// to BaseFret: fret 1 sits on BaseFret.
type Position struct {
	Frets    []int `json:"frets"`
	Fingers  []int `json:"fingers"`
	Barres   []int `json:"barres"`
	BaseFret int   `json:"baseFret"`
	Capo     bool  `json:"capo,omitempty"`
	MIDI     []int `json:"midi"`
}

func (p Position) validate() error {
	if len(p.Frets) != NumStrings {
		return fmt.Errorf("want %d frets, got %d", NumStrings, len(p.Frets))
	}
	if len(p.Fingers) != 0 && len(p.Fingers) != NumStrings {
		return fmt.Errorf("want %d fingers, got %d", NumStrings, len(p.Fingers))
	}
	if p.BaseFret < 1 {
		return fmt.Errorf("base fret %d < 1", p.BaseFret)
	}
	for i, f := range p.Frets {
		if f < Muted {
			return fmt.Errorf("string %d: fret %d", i, f)
		}
	}
	return nil
}

// Finger returns the finger label for string index i, 0 when unlabeled.
func (p Position) Finger(i int) int {
	if i < 0 || i >= len(p.Fingers) {
		return 0
	}
	return p.Fingers[i]
}

// AbsoluteFret converts the relative fret on string index i into a fretboard
// position: Muted stays Muted and OpenString stays OpenString.
func (p Position) AbsoluteFret(i int) int {
	f := p.Frets[i]
	if f <= OpenString {
		return f
	}
	return p.BaseFret + f - 1
}

// Pitches returns the MIDI notes of the sounding strings. The database
// values win; without them the notes are derived from standard tuning.
func (p Position) Pitches() []int {
	if len(p.MIDI) > 0 {
		return slices.Clone(p.MIDI)
	}
	out := make([]int, 0, NumStrings)
	for i := range p.Frets {
		f := p.AbsoluteFret(i)
		if f == Muted {
			continue
		}
		out = append(out, StandardTuning[i]+f)
	}
	return out
}
