package chord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		root   string
		suffix string
	}{
		{"plain root", "C", "C", "major"},
		{"sharp minor seventh", "C#m7", "C#", "m7"},
		{"flat root", "Bb7", "Bb", "7"},
		{"lowercase", "am", "a", "m"},
		{"surrounding space", "  Gmaj7 ", "G", "maj7"},
		{"lowercase b is a flat", "ebm", "eb", "m"},
		{"unicode sharp", "F♯m", "F#", "m"},
		{"unicode flat", "E♭", "Eb", "major"},
		{"slash chord", "C/E", "C", "/E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.root, n.Root)
			assert.Equal(t, tt.suffix, n.Suffix)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "Z9", "H", "#m", "9"} {
		_, err := Parse(input)
		assert.True(t, errors.Is(err, ErrInvalidName), "input %q", input)
	}
}

func TestNormalizeRoot(t *testing.T) {
	tests := map[string]string{
		"c":  "C",
		"C":  "C",
		"db": "Csharp",
		"c#": "Csharp",
		"C#": "Csharp",
		"Db": "Csharp",
		"d#": "Eb",
		"F#": "Fsharp",
		"gb": "Fsharp",
		"G#": "Ab",
		"A#": "Bb",
		"E#": "F",
		"B#": "C",
		"Cb": "B",
		"Fb": "E",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRoot(in), "root %q", in)
	}
}

func TestNormalizeRootEnharmonic(t *testing.T) {
	assert.Equal(t, NormalizeRoot("db"), NormalizeRoot("c#"))
	assert.Equal(t, "Csharp", NormalizeRoot("db"))
}

func TestNormalizeRootFallback(t *testing.T) {
	assert.Equal(t, "Zz", NormalizeRoot("zz"))
	assert.Equal(t, "", NormalizeRoot(""))
}

func TestNameString(t *testing.T) {
	assert.Equal(t, "C", Name{Root: "C", Suffix: "major"}.String())
	assert.Equal(t, "C#m7", Name{Root: "C#", Suffix: "m7"}.String())
	assert.Equal(t, "Csharp", Name{Root: "C#", Suffix: "m7"}.Key())
}

func TestSuffixMatches(t *testing.T) {
	assert.True(t, SuffixMatches("MAJ7", "maj7"))
	assert.True(t, SuffixMatches("Minor", "minor"))
	assert.False(t, SuffixMatches("m", "minor"))
}

func TestAlias(t *testing.T) {
	assert.Equal(t, "minor", Alias("m"))
	assert.Equal(t, "minor", Alias("min"))
	assert.Equal(t, "major", Alias("maj"))
	assert.Equal(t, "major", Alias("M"), "upper-case M is major")
	assert.Equal(t, "MIN", Alias("MIN"), "aliases are case-sensitive")
	assert.Equal(t, "m7", Alias("m7"))
}
