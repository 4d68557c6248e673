// Package tui is the interactive chord board: type a chord name, see its
// diagram, flip through fingerings and hear it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chase3718/chordviewer/chorddb"
	"github.com/chase3718/chordviewer/diagram"
	"github.com/chase3718/chordviewer/player"
	"github.com/chase3718/chordviewer/state"
)

type keyMap struct {
	Quit    key.Binding
	Focus   key.Binding
	Add     key.Binding
	Prev    key.Binding
	Next    key.Binding
	VarPrev key.Binding
	VarNext key.Binding
	Remove  key.Binding
	Play    key.Binding
	Export  key.Binding
	Import  key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	Focus:   key.NewBinding(key.WithKeys("tab", "esc"), key.WithHelp("tab", "input/board")),
	Add:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev chord")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next chord")),
	VarPrev: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev shape")),
	VarNext: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next shape")),
	Remove:  key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "remove")),
	Play:    key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "play")),
	Export:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save "+state.ExportFileName)),
	Import:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open "+state.ExportFileName)),
}

var errInvalidFile = errors.New("invalid JSON file")

type playedMsg struct {
	name string
	err  error
}

// Model is the bubbletea model. The chord list lives in the state.App, so
// every change made here is persisted as it happens.
type Model struct {
	ctx       context.Context
	db        *chorddb.DB
	app       *state.App
	player    player.Player
	exportDir string

	input    textinput.Model
	board    bool // focus on the chord cards instead of the input
	selected int
	status   string
	err      error
	width    int
	styles   styles
}

// New builds the model. exportDir is where save and open read and write
// chords.json; p may be nil to disable playback.
func New(ctx context.Context, db *chorddb.DB, app *state.App, p player.Player, exportDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter chord (e.g. C#m7)"
	ti.CharLimit = 16
	ti.Width = 24
	ti.Focus()
	return Model{
		ctx:       ctx,
		db:        db,
		app:       app,
		player:    p,
		exportDir: exportDir,
		input:     ti,
		width:     80,
		styles:    newStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case playedMsg:
		if msg.err != nil {
			m.setErr(fmt.Errorf("play %s: %w", msg.name, msg.err))
		} else {
			m.setStatus("played " + msg.name)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Focus) {
			m.board = !m.board
			if m.board {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil
		}
		if !m.board {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Add) {
		name := strings.TrimSpace(m.input.Value())
		added, err := m.app.Add(m.ctx, name)
		switch {
		case err != nil:
			m.setErr(err)
		case added:
			m.selected = m.app.Len() - 1
			m.setStatus("added " + name)
		case name != "":
			m.setStatus(name + " is already on the board")
		}
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.app.Items()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Export):
		m.export()
		return m, nil
	case key.Matches(msg, keys.Import):
		m.importFile()
		return m, nil
	}
	if len(items) == 0 {
		return m, nil
	}
	m.selected = min(m.selected, len(items)-1)
	cur := items[m.selected]

	switch {
	case key.Matches(msg, keys.Prev):
		m.selected = (m.selected - 1 + len(items)) % len(items)
	case key.Matches(msg, keys.Next):
		m.selected = (m.selected + 1) % len(items)
	case key.Matches(msg, keys.VarPrev), key.Matches(msg, keys.VarNext):
		res, err := m.db.Resolve(cur.Name, 0)
		if err != nil || res.Variations < 2 {
			return m, nil
		}
		step := 1
		if key.Matches(msg, keys.VarPrev) {
			step = res.Variations - 1
		}
		next := (cur.VariationIndex + step) % res.Variations
		if err := m.app.SetVariation(m.ctx, m.selected, next); err != nil {
			m.setErr(err)
		}
	case key.Matches(msg, keys.Remove):
		if err := m.app.Remove(m.ctx, m.selected); err != nil {
			m.setErr(err)
			return m, nil
		}
		m.setStatus("removed " + cur.Name)
		m.selected = max(0, min(m.selected, len(items)-2))
	case key.Matches(msg, keys.Play):
		return m, m.play(cur)
	}
	return m, nil
}

func (m Model) play(item state.ChordItem) tea.Cmd {
	if m.player == nil {
		return nil
	}
	res, err := m.db.Resolve(item.Name, item.VariationIndex)
	if err != nil {
		return nil
	}
	ctx, p := m.ctx, m.player
	return func() tea.Msg {
		return playedMsg{name: item.Name, err: p.Play(ctx, res.Position.Pitches())}
	}
}

func (m *Model) exportPath() string {
	return filepath.Join(m.exportDir, state.ExportFileName)
}

func (m *Model) export() {
	f, err := os.Create(m.exportPath())
	if err != nil {
		m.setErr(err)
		return
	}
	err = errors.Join(m.app.Export(f), f.Close())
	if err != nil {
		m.setErr(err)
		return
	}
	m.setStatus("saved " + m.exportPath())
}

func (m *Model) importFile() {
	f, err := os.Open(m.exportPath())
	if err != nil {
		m.setErr(err)
		return
	}
	defer f.Close()
	if err := m.app.Import(m.ctx, f); err != nil {
		if errors.Is(err, state.ErrInvalidState) {
			m.setErr(errInvalidFile)
			return
		}
		m.setErr(err)
		return
	}
	m.selected = 0
	m.setStatus("loaded " + m.exportPath())
}

func (m *Model) setStatus(s string) {
	m.status, m.err = s, nil
}

func (m *Model) setErr(err error) {
	m.status, m.err = "", err
}

// card renders one chord; names that do not resolve get a placeholder.
func (m Model) card(item state.ChordItem, selected bool) string {
	style := m.styles.Card
	if selected {
		style = m.styles.Selected
	}
	res, err := m.db.Resolve(item.Name, item.VariationIndex)
	if err != nil {
		return style.Render(item.Name + "\n\n" + m.styles.Missing.Render("Chord not found"))
	}
	body := diagram.Text(diagram.FromPosition(res.Position), item.Name)
	footer := fmt.Sprintf("shape %d/%d", res.Variation+1, res.Variations)
	return style.Render(strings.TrimRight(body, "\n") + "\n" + m.styles.Status.Render(footer))
}

func (m Model) cards() string {
	items := m.app.Items()
	if len(items) == 0 {
		return m.styles.Status.Render("No chords yet.")
	}
	var rows []string
	var row []string
	rowWidth := 0
	for i, it := range items {
		c := m.card(it, m.board && i == m.selected)
		w := lipgloss.Width(c)
		if len(row) > 0 && rowWidth+w > m.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, c)
		rowWidth += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) help() string {
	bindings := []key.Binding{keys.Focus, keys.Add}
	if m.board {
		bindings = []key.Binding{keys.Focus, keys.Prev, keys.Next, keys.VarPrev, keys.VarNext,
			keys.Remove, keys.Play, keys.Export, keys.Import, keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Guitar Chords"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.cards())
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(m.styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help())
	return b.String()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, m Model) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
