package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chase3718/chordviewer/chord"
	"github.com/chase3718/chordviewer/chorddb"
	"github.com/chase3718/chordviewer/diagram"
	"github.com/chase3718/chordviewer/state"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

type chordView struct {
	Name       string       `json:"name"`
	Root       string       `json:"root"`
	Suffix     string       `json:"suffix"`
	Variation  int          `json:"variation"`
	Variations int          `json:"variations"`
	Diagram    diagram.Data `json:"diagram"`
	Pitches    []int        `json:"pitches"`
}

func newChordView(name string, r chorddb.Resolved) chordView {
	return chordView{
		Name:       name,
		Root:       r.Key,
		Suffix:     r.Suffix,
		Variation:  r.Variation,
		Variations: r.Variations,
		Diagram:    diagram.FromPosition(r.Position),
		Pitches:    r.Position.Pitches(),
	}
}

// itemView is a chord list entry; Chord is nil when the name does not
// resolve, which clients show as "Chord not found".
type itemView struct {
	state.ChordItem
	Chord *chordView `json:"chord"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	variation := 0
	if v := r.URL.Query().Get("variation"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid variation")
			return
		}
		variation = n
	}
	res, err := s.db.Load().Resolve(name, variation)
	if err != nil {
		s.logger.Debug("server: lookup failed", "name", name, "variation", variation, "err", err)
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newChordView(name, res))
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	type keyView struct {
		Key      string   `json:"key"`
		Suffixes []string `json:"suffixes"`
	}
	db := s.db.Load()
	keys := db.Keys()
	out := make([]keyView, 0, len(keys))
	for _, k := range keys {
		out = append(out, keyView{Key: k, Suffixes: db.Suffixes(k)})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSuffixes(w http.ResponseWriter, r *http.Request) {
	key := chord.NormalizeRoot(r.PathValue("root"))
	suffixes := s.db.Load().Suffixes(key)
	if len(suffixes) == 0 {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeJSON(w, http.StatusOK, suffixes)
}

func (s *Server) items() []itemView {
	db := s.db.Load()
	items := s.app.Items()
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		v := itemView{ChordItem: it}
		if res, err := db.Resolve(it.Name, it.VariationIndex); err == nil {
			cv := newChordView(it.Name, res)
			v.Chord = &cv
		}
		views = append(views, v)
	}
	return views
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.items())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	added, err := s.app.Add(r.Context(), req.Name)
	if err != nil {
		s.logger.Error("server: add chord", "name", req.Name, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, map[string]any{"added": added, "items": s.items()})
}

func (s *Server) pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 || index >= s.app.Len() {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no chord at index %q", r.PathValue("index")))
		return 0, false
	}
	return index, true
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	index, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	if err := s.app.Remove(r.Context(), index); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.items())
}

func (s *Server) handleVariation(w http.ResponseWriter, r *http.Request) {
	index, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Variation int `json:"variation"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.app.SetVariation(r.Context(), index, req.Variation); err != nil {
		if errors.Is(err, state.ErrInvalidState) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.items())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", state.ExportFileName))
	if err := s.app.Export(w); err != nil {
		s.logger.Error("server: export", "err", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxBody)); err != nil {
		if errors.Is(err, state.ErrInvalidState) {
			s.writeError(w, http.StatusBadRequest, "Invalid JSON file")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.items())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Variation int    `json:"variation"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	res, err := s.db.Load().Resolve(req.Name, req.Variation)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if s.player == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no player configured")
		return
	}
	if err := s.player.Play(r.Context(), res.Position.Pitches()); err != nil {
		s.logger.Error("server: play", "name", req.Name, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
