package diagram

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chase3718/chordviewer/chorddb"
)

func TestFromPositionOpenC(t *testing.T) {
	p := chorddb.Position{
		Frets:    []int{-1, 3, 2, 0, 1, 0},
		Fingers:  []int{0, 3, 2, 0, 1, 0},
		BaseFret: 1,
	}
	want := Data{
		Fingers: []Finger{
			{String: 5, Fret: 3, Label: "3"},
			{String: 4, Fret: 2, Label: "2"},
			{String: 2, Fret: 1, Label: "1"},
		},
		Position:     0,
		Barres:       []Barre{},
		MutedStrings: []int{6},
	}
	if diff := cmp.Diff(want, FromPosition(p)); diff != "" {
		t.Errorf("FromPosition() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPositionBarre(t *testing.T) {
	p := chorddb.Position{
		Frets:    []int{1, 3, 3, 2, 1, 1},
		Fingers:  []int{1, 3, 4, 2, 1, 1},
		Barres:   []int{1},
		BaseFret: 8,
	}
	d := FromPosition(p)
	assert.Equal(t, 7, d.Position)
	assert.Equal(t, []Barre{{FromString: 6, ToString: 1, Fret: 1}}, d.Barres)
	assert.Len(t, d.Fingers, 6)
	assert.Empty(t, d.MutedStrings)
}

func TestFromPositionUnlabeledFinger(t *testing.T) {
	p := chorddb.Position{Frets: []int{0, 0, 0, 0, 0, 2}, BaseFret: 1}
	d := FromPosition(p)
	require.Len(t, d.Fingers, 1)
	assert.Equal(t, Finger{String: 1, Fret: 2}, d.Fingers[0])
}

func TestStringNumberInversion(t *testing.T) {
	assert.Equal(t, 6, StringNumber(0))
	assert.Equal(t, 1, StringNumber(5))

	db, err := chorddb.Default()
	require.NoError(t, err)
	db.Each(func(key string, c chorddb.Chord) {
		for _, p := range c.Positions {
			d := FromPosition(p)
			for _, f := range d.Fingers {
				assert.Equal(t, p.Frets[6-f.String], f.Fret, "%s %s", key, c.Suffix)
			}
			for _, s := range d.MutedStrings {
				assert.Equal(t, chorddb.Muted, p.Frets[6-s], "%s %s", key, c.Suffix)
			}
		}
	})
}

func TestEveryStringAccountedFor(t *testing.T) {
	db, err := chorddb.Default()
	require.NoError(t, err)
	db.Each(func(key string, c chorddb.Chord) {
		for i, p := range c.Positions {
			open := 0
			for _, f := range p.Frets {
				if f == chorddb.OpenString {
					open++
				}
			}
			d := FromPosition(p)
			assert.Equal(t, 6, len(d.MutedStrings)+len(d.Fingers)+open, "%s %s #%d", key, c.Suffix, i)
		}
	})
}

func TestDataJSON(t *testing.T) {
	d := Data{
		Fingers:      []Finger{{String: 5, Fret: 3, Label: "3"}, {String: 1, Fret: 2}},
		Position:     2,
		Barres:       []Barre{{FromString: 6, ToString: 1, Fret: 1}},
		MutedStrings: []int{6},
	}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fingers": [[5, 3, "3"], [1, 2]],
		"position": 2,
		"barres": [{"fromString": 6, "toString": 1, "fret": 1}],
		"mutedStrings": [6]
	}`, string(data))

	var back Data
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`{"fingers": [[1]]}`), &back))
}

func TestText(t *testing.T) {
	d := FromPosition(chorddb.Position{
		Frets:    []int{-1, 3, 2, 0, 1, 0},
		Fingers:  []int{0, 3, 2, 0, 1, 0},
		BaseFret: 1,
	})
	want := "C major\n" +
		"x     o   o\n" +
		"===========\n" +
		"| | | | 1 |\n" +
		"| | 2 | | |\n" +
		"| 3 | | | |\n" +
		"| | | | | |\n"
	assert.Equal(t, want, Text(d, "C major"))
}

func TestTextBarre(t *testing.T) {
	d := FromPosition(chorddb.Position{
		Frets:    []int{-1, 1, 3, 3, 3, 1},
		Fingers:  []int{0, 1, 2, 3, 4, 1},
		Barres:   []int{1},
		BaseFret: 3,
	})
	want := "x\n" +
		"-----------\n" +
		"= 1 = = = 1 3fr\n" +
		"| | | | | |\n" +
		"| | 2 3 4 |\n" +
		"| | | | | |\n"
	assert.Equal(t, want, Text(d, ""))
}
