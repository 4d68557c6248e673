package diagram

import (
	"fmt"
	"strings"
)

const minRows = 4

// Text draws the diagram as a monospace fretboard, low E on the left.
//
//	C major
//	x     o   o
//	===========
//	| | | | 1 |
//	| | 2 | | |
//	| 3 | | | |
//	| | | | | |
func Text(d Data, title string) string {
	const cols = 6
	rows := minRows
	for _, f := range d.Fingers {
		rows = max(rows, f.Fret)
	}
	for _, b := range d.Barres {
		rows = max(rows, b.Fret)
	}

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = "|"
		}
	}
	for _, b := range d.Barres {
		if b.Fret < 1 {
			continue
		}
		for s := b.ToString; s <= b.FromString; s++ {
			grid[b.Fret-1][cols-s] = "="
		}
	}
	fretted := make(map[int]bool)
	for _, f := range d.Fingers {
		if f.Fret < 1 || f.String < 1 || f.String > cols {
			continue
		}
		mark := f.Label
		if mark == "" {
			mark = "*"
		}
		grid[f.Fret-1][cols-f.String] = mark
		fretted[f.String] = true
	}
	muted := make(map[int]bool)
	for _, s := range d.MutedStrings {
		muted[s] = true
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	marks := make([]string, cols)
	for c := range marks {
		s := cols - c
		switch {
		case muted[s]:
			marks[c] = "x"
		case fretted[s]:
			marks[c] = " "
		default:
			marks[c] = "o"
		}
	}
	b.WriteString(strings.TrimRight(strings.Join(marks, " "), " "))
	b.WriteByte('\n')
	if d.Position == 0 {
		b.WriteString(strings.Repeat("=", cols*2-1))
	} else {
		b.WriteString(strings.Repeat("-", cols*2-1))
	}
	b.WriteByte('\n')
	for r, row := range grid {
		b.WriteString(strings.Join(row, " "))
		if r == 0 && d.Position > 0 {
			fmt.Fprintf(&b, " %dfr", d.Position+1)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
