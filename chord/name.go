// Package chord parses user-typed chord names and maps their root spelling
// onto the keys used by the chord database.
package chord

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultSuffix is used when a name carries no quality after its root.
const DefaultSuffix = "major"

var ErrInvalidName = errors.New("invalid chord name")

// one letter A-G, optional accidental, the rest is the suffix
var namePattern = regexp.MustCompile(`^([A-Ga-g][#b]?)(.*)$`)

var accidentals = strings.NewReplacer("♯", "#", "♭", "b")

// rootKeys maps a lowercased root spelling to the database key.
// Enharmonic spellings collapse onto the one spelling the database uses.
var rootKeys = map[string]string{
	"c":  "C",
	"c#": "Csharp",
	"db": "Csharp",
	"d":  "D",
	"d#": "Eb",
	"eb": "Eb",
	"e":  "E",
	"fb": "E",
	"e#": "F",
	"f":  "F",
	"f#": "Fsharp",
	"gb": "Fsharp",
	"g":  "G",
	"g#": "Ab",
	"ab": "Ab",
	"a":  "A",
	"a#": "Bb",
	"bb": "Bb",
	"b":  "B",
	"cb": "B",
	"b#": "C",
}

// Name is a chord name split into its root and suffix tokens.
type Name struct {
	Root   string
	Suffix string
}

// Parse splits a chord name like "C#m7" into root "C#" and suffix "m7".
func Parse(name string) (Name, error) {
	s := accidentals.Replace(strings.TrimSpace(name))
	m := namePattern.FindStringSubmatch(s)
	if m == nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	suffix := strings.TrimSpace(m[2])
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return Name{Root: m[1], Suffix: suffix}, nil
}

// Key returns the database key for the name's root.
func (n Name) Key() string {
	return NormalizeRoot(n.Root)
}

func (n Name) String() string {
	if strings.EqualFold(n.Suffix, DefaultSuffix) {
		return n.Root
	}
	return n.Root + n.Suffix
}

// NormalizeRoot maps a root spelling onto the database key. Spellings outside
// the table come back with their first letter capitalized.
func NormalizeRoot(root string) string {
	if key, ok := rootKeys[strings.ToLower(root)]; ok {
		return key
	}
	if root == "" {
		return root
	}
	return strings.ToUpper(root[:1]) + root[1:]
}

// suffixAliases holds common shorthand for the database's spelled-out
// qualities. They apply only when the typed suffix has no direct match, and
// they are case-sensitive: "m" is minor, "M" is major.
var suffixAliases = map[string]string{
	"m":   "minor",
	"min": "minor",
	"-":   "minor",
	"M":   "major",
	"maj": "major",
}

// Alias returns the database spelling for shorthand like "m", or the suffix
// unchanged.
func Alias(suffix string) string {
	if s, ok := suffixAliases[suffix]; ok {
		return s
	}
	return suffix
}

// SuffixMatches reports whether a typed suffix names the database suffix.
func SuffixMatches(typed, suffix string) bool {
	return strings.EqualFold(typed, suffix)
}
