// Package diagram adapts database positions into the chord-diagram format
// consumed by the svguitar renderer.
package diagram

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chase3718/chordviewer/chorddb"
)

// Finger is one fretted note. String numbering runs 1 (high E) to 6 (low E).
type Finger struct {
	String int
	Fret   int
	Label  string
}

// MarshalJSON encodes the renderer's tuple form: [string, fret] or
// [string, fret, label].
func (f Finger) MarshalJSON() ([]byte, error) {
	if f.Label == "" {
		return json.Marshal([]any{f.String, f.Fret})
	}
	return json.Marshal([]any{f.String, f.Fret, f.Label})
}

func (f *Finger) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("diagram: finger wants 2 or 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &f.String); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &f.Fret); err != nil {
		return err
	}
	f.Label = ""
	if len(raw) == 3 {
		return json.Unmarshal(raw[2], &f.Label)
	}
	return nil
}

type Barre struct {
	FromString int `json:"fromString"`
	ToString   int `json:"toString"`
	Fret       int `json:"fret"`
}

// Data is the renderer input for one chord.
type Data struct {
	Fingers      []Finger `json:"fingers"`
	Position     int      `json:"position"`
	Barres       []Barre  `json:"barres"`
	MutedStrings []int    `json:"mutedStrings"`
}

// StringNumber maps a database string index (0 = low E) to the renderer's
// numbering (6 = low E).
func StringNumber(index int) int {
	return chorddb.NumStrings - index
}

// FromPosition converts a position. Barres always span all six strings.
func FromPosition(p chorddb.Position) Data {
	d := Data{
		Fingers:      []Finger{},
		Barres:       []Barre{},
		MutedStrings: []int{},
	}
	for i, fret := range p.Frets {
		if i >= chorddb.NumStrings {
			break
		}
		s := StringNumber(i)
		switch {
		case fret == chorddb.Muted:
			d.MutedStrings = append(d.MutedStrings, s)
		case fret == chorddb.OpenString:
		default:
			f := Finger{String: s, Fret: fret}
			if n := p.Finger(i); n > 0 {
				f.Label = strconv.Itoa(n)
			}
			d.Fingers = append(d.Fingers, f)
		}
	}
	for _, fret := range p.Barres {
		d.Barres = append(d.Barres, Barre{FromString: chorddb.NumStrings, ToString: 1, Fret: fret})
	}
	if p.BaseFret > 1 {
		d.Position = p.BaseFret - 1
	}
	return d
}
