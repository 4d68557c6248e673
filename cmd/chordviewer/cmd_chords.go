package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chase3718/chordviewer/chord"
	"github.com/chase3718/chordviewer/chorddb"
	"github.com/chase3718/chordviewer/diagram"
	"github.com/chase3718/chordviewer/player"
)

const notFound = "Chord not found"

// printCard writes one chord diagram, or the not-found placeholder, and
// reports whether the chord resolved.
func printCard(w io.Writer, db *chorddb.DB, name string, variation int) (bool, error) {
	res, err := db.Resolve(name, variation)
	if err != nil {
		_, werr := fmt.Fprintf(w, "%s\n  %s\n\n", name, notFound)
		return false, werr
	}
	d := diagram.FromPosition(res.Position)
	_, err = fmt.Fprintf(w, "%sshape %d/%d  %s\n\n",
		diagram.Text(d, name), res.Variation+1, res.Variations, player.PitchNames(res.Position.Pitches()))
	return true, err
}

func newShowCmd(g *globals) *cobra.Command {
	var (
		variation int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "show CHORD...",
		Short: "Draw chord diagrams",
		Example: `  chordviewer show C#m7
  chordviewer show Am --variation 1 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := g.openDB(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return showJSON(out, db, args, variation)
			}
			var missing []string
			for _, name := range args {
				found, err := printCard(out, db, name, variation)
				if err != nil {
					return err
				}
				if !found {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", chorddb.ErrNotFound, strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&variation, "variation", "n", 0, "fingering to show, 0 is the first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print renderer diagram data as JSON")
	return cmd
}

type chordJSON struct {
	Name       string        `json:"name"`
	Root       string        `json:"root,omitempty"`
	Suffix     string        `json:"suffix,omitempty"`
	Variation  int           `json:"variation"`
	Variations int           `json:"variations"`
	Diagram    *diagram.Data `json:"diagram"`
	Pitches    []int         `json:"pitches,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func showJSON(w io.Writer, db *chorddb.DB, names []string, variation int) error {
	out := make([]chordJSON, 0, len(names))
	var errs []error
	for _, name := range names {
		res, err := db.Resolve(name, variation)
		if err != nil {
			out = append(out, chordJSON{Name: name, Variation: variation, Error: "not found"})
			errs = append(errs, err)
			continue
		}
		d := diagram.FromPosition(res.Position)
		out = append(out, chordJSON{
			Name:       name,
			Root:       res.Key,
			Suffix:     res.Suffix,
			Variation:  variation,
			Variations: res.Variations,
			Diagram:    &d,
			Pitches:    res.Position.Pitches(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func newKeysCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [ROOT]",
		Short: "List database keys, or the suffixes of one root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := g.openDB(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				key := chord.NormalizeRoot(args[0])
				suffixes := db.Suffixes(key)
				if len(suffixes) == 0 {
					return fmt.Errorf("%w: key %s", chorddb.ErrNotFound, args[0])
				}
				for _, s := range suffixes {
					fmt.Fprintln(out, s)
				}
				return nil
			}
			for _, k := range db.Keys() {
				fmt.Fprintf(out, "%-7s %s\n", k, strings.Join(db.Suffixes(k), " "))
			}
			return nil
		},
	}
}
