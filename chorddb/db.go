// Package chorddb holds the read-only guitar chord database: root key to
// chord qualities, each with one or more fingering positions.
package chorddb

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"github.com/chase3718/chordviewer/chord"
)

//go:embed data/guitar.json
var dataFS embed.FS

var ErrNotFound = errors.New("chord not found")

// keyOrder is the chromatic order of the database's root keys.
var keyOrder = []string{"C", "Csharp", "D", "Eb", "E", "F", "Fsharp", "G", "Ab", "A", "Bb", "B"}

// Chord is one quality of a root with its fingering positions.
type Chord struct {
	Key       string     `json:"key"`
	Suffix    string     `json:"suffix"`
	Positions []Position `json:"positions"`
}

// DB maps a root key ("C", "Csharp", "Eb", ...) to its chords.
type DB struct {
	chords map[string][]Chord
}

// document is the wrapped chords-db layout; the bare layout is just the
// chords map.
type document struct {
	Chords map[string][]Chord `json:"chords"`
}

// New builds a DB from a root-key table, validating every position.
func New(chords map[string][]Chord) (*DB, error) {
	for key, list := range chords {
		for _, c := range list {
			for i, p := range c.Positions {
				if p.BaseFret == 0 {
					// older exports omit baseFret for open positions
					c.Positions[i].BaseFret = 1
					p.BaseFret = 1
				}
				if err := p.validate(); err != nil {
					return nil, fmt.Errorf("chorddb: %s %s position %d: %w", key, c.Suffix, i, err)
				}
			}
		}
	}
	return &DB{chords: chords}, nil
}

// Load decodes either {"chords": {root: [...]}} or {root: [...]}.
func Load(r io.Reader) (*DB, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("chorddb: read: %w", err)
	}
	return Parse(data)
}

// Parse is Load over an in-memory document.
func Parse(data []byte) (*DB, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.Chords) > 0 {
		return New(doc.Chords)
	}
	var bare map[string][]Chord
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("chorddb: decode: %w", err)
	}
	if len(bare) == 0 {
		return nil, errors.New("chorddb: no chords in document")
	}
	return New(bare)
}

// LoadFile reads a database from disk.
func LoadFile(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chorddb: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the database compiled into the binary.
func Default() (*DB, error) {
	data, err := dataFS.ReadFile("data/guitar.json")
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Keys returns the root keys in chromatic order, followed by any
// non-standard keys sorted by name.
func (db *DB) Keys() []string {
	keys := make([]string, 0, len(db.chords))
	for _, k := range keyOrder {
		if _, ok := db.chords[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range db.chords {
		if !slices.Contains(keyOrder, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Suffixes lists the qualities stored under a root key in database order.
func (db *DB) Suffixes(key string) []string {
	list := db.chords[key]
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Suffix)
	}
	return out
}

func (db *DB) find(key, suffix string) (Chord, bool) {
	for _, c := range db.chords[key] {
		if chord.SuffixMatches(suffix, c.Suffix) {
			return c, true
		}
	}
	alias := chord.Alias(suffix)
	if alias == suffix {
		return Chord{}, false
	}
	for _, c := range db.chords[key] {
		if chord.SuffixMatches(alias, c.Suffix) {
			return c, true
		}
	}
	return Chord{}, false
}

// Lookup selects one fingering. It fails with ErrNotFound when the root, the
// suffix or the variation index is missing.
func (db *DB) Lookup(key, suffix string, variation int) (Position, error) {
	if _, ok := db.chords[key]; !ok {
		return Position{}, fmt.Errorf("root %q: %w", key, ErrNotFound)
	}
	c, ok := db.find(key, suffix)
	if !ok {
		return Position{}, fmt.Errorf("%s %q: %w", key, suffix, ErrNotFound)
	}
	if variation < 0 || variation >= len(c.Positions) {
		return Position{}, fmt.Errorf("%s %s variation %d of %d: %w", key, c.Suffix, variation, len(c.Positions), ErrNotFound)
	}
	return c.Positions[variation], nil
}

// Variations returns how many positions a chord has, 0 when it is unknown.
func (db *DB) Variations(key, suffix string) int {
	c, ok := db.find(key, suffix)
	if !ok {
		return 0
	}
	return len(c.Positions)
}

// Resolved is a chord name resolved against the database.
type Resolved struct {
	Name       chord.Name
	Key        string
	Suffix     string // database spelling
	Variation  int
	Variations int
	Position   Position
}

// Resolve parses a typed chord name and looks up one of its positions.
func (db *DB) Resolve(name string, variation int) (Resolved, error) {
	n, err := chord.Parse(name)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	key := n.Key()
	pos, err := db.Lookup(key, n.Suffix, variation)
	if err != nil {
		return Resolved{}, err
	}
	c, _ := db.find(key, n.Suffix)
	return Resolved{
		Name:       n,
		Key:        key,
		Suffix:     c.Suffix,
		Variation:  variation,
		Variations: len(c.Positions),
		Position:   pos,
	}, nil
}

// Each calls fn for every chord in key order.
func (db *DB) Each(fn func(key string, c Chord)) {
	for _, k := range db.Keys() {
		for _, c := range db.chords[k] {
			fn(k, c)
		}
	}
}
