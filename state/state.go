// Package state holds the user's chord list and keeps it mirrored to a
// Store after every change.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// ExportFileName is the default name for downloaded chord lists.
const ExportFileName = "chords.json"

var ErrInvalidState = errors.New("invalid chord list")

// ChordItem is one chord on the user's list.
type ChordItem struct {
	Name           string `json:"name"`
	VariationIndex int    `json:"variationIndex"`
}

func (c ChordItem) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty chord name", ErrInvalidState)
	}
	if c.VariationIndex < 0 {
		return fmt.Errorf("%w: %s variation %d", ErrInvalidState, c.Name, c.VariationIndex)
	}
	return nil
}

// Decode parses a chord list. Besides the current object form it accepts a
// plain array of names, the format written by the first release.
func Decode(data []byte) ([]ChordItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []ChordItem{}, nil
	}
	var items []ChordItem
	if err := json.Unmarshal(data, &items); err != nil {
		var names []string
		if nameErr := json.Unmarshal(data, &names); nameErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		items = make([]ChordItem, 0, len(names))
		for _, n := range names {
			items = append(items, ChordItem{Name: n})
		}
	}
	if items == nil {
		items = []ChordItem{}
	}
	for _, it := range items {
		if err := it.validate(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// App is the chord list plus the store it is persisted to. It is safe for
// concurrent use.
type App struct {
	mu     sync.Mutex
	items  []ChordItem
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{items: []ChordItem{}, store: store, logger: logger}
}

// Load replaces the in-memory list with the stored one. A stored value that
// does not decode resets the list to empty and writes the empty list back.
func (a *App) Load(ctx context.Context) error {
	data, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("state: load: %w", err)
	}
	items, err := Decode(data)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.logger.Warn("state: stored chord list is unreadable, resetting", "err", err)
		a.items = []ChordItem{}
		return a.saveLocked(ctx)
	}
	a.items = items
	a.logger.Debug("state: loaded", "items", len(items))
	return nil
}

// Items returns a copy of the list.
func (a *App) Items() []ChordItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.items)
}

func (a *App) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// Add appends a chord at variation 0. Blank names and names already on the
// list are ignored and reported as not added.
func (a *App) Add(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if slices.ContainsFunc(a.items, func(c ChordItem) bool { return c.Name == name }) {
		return false, nil
	}
	prev := a.items
	a.items = append(slices.Clone(a.items), ChordItem{Name: name})
	if err := a.commitLocked(ctx, prev); err != nil {
		return false, err
	}
	a.logger.Info("state: chord added", "name", name)
	return true, nil
}

// Remove deletes the chord at index.
func (a *App) Remove(ctx context.Context, index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.items) {
		return fmt.Errorf("state: remove: index %d out of range [0,%d)", index, len(a.items))
	}
	prev, name := a.items, a.items[index].Name
	a.items = slices.Delete(slices.Clone(a.items), index, index+1)
	if err := a.commitLocked(ctx, prev); err != nil {
		return err
	}
	a.logger.Info("state: chord removed", "name", name)
	return nil
}

// RemoveName deletes every chord with the given name.
func (a *App) RemoveName(ctx context.Context, name string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.items
	a.items = slices.DeleteFunc(slices.Clone(a.items), func(c ChordItem) bool { return c.Name == name })
	if len(a.items) == len(prev) {
		a.items = prev
		return false, nil
	}
	if err := a.commitLocked(ctx, prev); err != nil {
		return false, err
	}
	a.logger.Info("state: chord removed", "name", name)
	return true, nil
}

// SetVariation selects another fingering for the chord at index.
func (a *App) SetVariation(ctx context.Context, index, variation int) error {
	if variation < 0 {
		return fmt.Errorf("state: variation %d: %w", variation, ErrInvalidState)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.items) {
		return fmt.Errorf("state: set variation: index %d out of range [0,%d)", index, len(a.items))
	}
	prev := a.items
	a.items = slices.Clone(a.items)
	a.items[index].VariationIndex = variation
	if err := a.commitLocked(ctx, prev); err != nil {
		return err
	}
	a.logger.Debug("state: variation changed", "name", a.items[index].Name, "variation", variation)
	return nil
}

// Replace swaps in a whole new list.
func (a *App) Replace(ctx context.Context, items []ChordItem) error {
	for _, it := range items {
		if err := it.validate(); err != nil {
			return err
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.items
	a.items = slices.Clone(items)
	if a.items == nil {
		a.items = []ChordItem{}
	}
	return a.commitLocked(ctx, prev)
}

// Reset empties the list.
func (a *App) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.items
	a.items = []ChordItem{}
	return a.commitLocked(ctx, prev)
}

// Save writes the current list, for use on shutdown.
func (a *App) Save(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveLocked(ctx)
}

// commitLocked persists the list, restoring prev when the store refuses it
// so memory never runs ahead of what was saved.
func (a *App) commitLocked(ctx context.Context, prev []ChordItem) error {
	if err := a.saveLocked(ctx); err != nil {
		a.items = prev
		return err
	}
	return nil
}

func (a *App) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(a.items)
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}
	if err := a.store.Save(ctx, data); err != nil {
		return fmt.Errorf("state: save: %w", err)
	}
	return nil
}

// Export writes the list as indented JSON.
func (a *App) Export(w io.Writer) error {
	items := a.Items()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("state: export: %w", err)
	}
	return nil
}

// Import replaces the list with one read from r. The list is left untouched
// when r does not hold a valid chord list.
func (a *App) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("state: import: %w", err)
	}
	items, err := Decode(data)
	if err != nil {
		return fmt.Errorf("state: import: %w", err)
	}
	a.logger.Info("state: imported", "items", len(items))
	return a.Replace(ctx, items)
}
