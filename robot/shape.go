package robot

import (
	"fmt"

	"github.com/chase3718/chordviewer/chorddb"
)

// DefaultDuration is the strum profile duration byte the firmware expects.
const DefaultDuration = 20

// ShapeFrame converts a chord position into a frame. Muted strings stay
// unfretted and unstrummed; open strings are strummed with no fret held.
// Positions reaching past MaxFret cannot be played by the actuator.
func ShapeFrame(p chorddb.Position, seq byte) (Frame, error) {
	f := EmptyFrame(seq)
	f.Duration = DefaultDuration
	for s := 0; s < NumStrings && s < len(p.Frets); s++ {
		abs := p.AbsoluteFret(s)
		switch {
		case abs == chorddb.Muted:
			continue
		case abs > MaxFret:
			return Frame{}, fmt.Errorf("robot: string %d fret %d beyond actuator range %d", s, abs, MaxFret)
		case abs > chorddb.OpenString:
			f.Fret[s] = byte(abs)
		}
		f.StrumMask |= 1 << s
	}
	return f, nil
}
