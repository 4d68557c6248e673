package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chase3718/chordviewer/chorddb"
	"github.com/chase3718/chordviewer/state"
)

// withApp opens the chord list for the duration of fn and saves it on the
// way out.
func (g *globals) withApp(ctx context.Context, fn func(*state.App) error) error {
	app, closeStore, err := g.openApp(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := fn(app); err != nil {
		return err
	}
	return app.Save(ctx)
}

// renderList draws every chord on the list, numbered from 1.
func renderList(w io.Writer, db *chorddb.DB, app *state.App) error {
	items := app.Items()
	if len(items) == 0 {
		_, err := io.WriteString(w, "No chords yet. Add one with: chordviewer add C#m7\n")
		return err
	}
	for i, it := range items {
		if _, err := fmt.Fprintf(w, "%d. ", i+1); err != nil {
			return err
		}
		if _, err := printCard(w, db, it.Name, it.VariationIndex); err != nil {
			return err
		}
	}
	return nil
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the saved chord list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			return g.withApp(ctx, func(app *state.App) error {
				return renderList(cmd.OutOrStdout(), db, app)
			})
		},
	}
}

func newAddCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "add CHORD...",
		Short: "Add chords to the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return g.withApp(ctx, func(app *state.App) error {
				for _, name := range args {
					added, err := app.Add(ctx, name)
					if err != nil {
						return err
					}
					if !added {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: already on the list\n", name)
					}
				}
				return nil
			})
		},
	}
}

// listIndex parses a 1-based list position.
func listIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("list position %q: not a number", arg)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("list position %d: list has %d chords", i, n)
	}
	return i - 1, nil
}

func newRemoveCmd(g *globals) *cobra.Command {
	var byIndex bool
	cmd := &cobra.Command{
		Use:     "remove CHORD|POSITION",
		Aliases: []string{"rm"},
		Short:   "Remove a chord from the list",
		Example: `  chordviewer remove Am
  chordviewer remove --index 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return g.withApp(ctx, func(app *state.App) error {
				if byIndex {
					i, err := listIndex(args[0], app.Len())
					if err != nil {
						return err
					}
					return app.Remove(ctx, i)
				}
				removed, err := app.RemoveName(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%s is not on the list", args[0])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&byIndex, "index", false, "treat the argument as a 1-based list position")
	return cmd
}

func newSelectCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "select POSITION SHAPE",
		Short: "Pick the fingering shown for a chord on the list",
		Long: `Pick the fingering shown for a chord on the list. POSITION and SHAPE
are both 1-based, as printed by "chordviewer list".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			return g.withApp(ctx, func(app *state.App) error {
				i, err := listIndex(args[0], app.Len())
				if err != nil {
					return err
				}
				shape, err := strconv.Atoi(args[1])
				if err != nil || shape < 1 {
					return fmt.Errorf("shape %q: want a number from 1", args[1])
				}
				name := app.Items()[i].Name
				if n, err := db.Resolve(name, 0); err == nil && shape > n.Variations {
					return fmt.Errorf("%s has %d shapes", name, n.Variations)
				}
				return app.SetVariation(ctx, i, shape-1)
			})
		},
	}
}

func newExportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the chord list as JSON (default " + state.ExportFileName + ", - for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := state.ExportFileName
			if len(args) == 1 {
				path = args[0]
			}
			return g.withApp(cmd.Context(), func(app *state.App) error {
				if path == "-" {
					return app.Export(cmd.OutOrStdout())
				}
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := app.Export(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				logger.Info("chord list exported", "path", path, "items", app.Len())
				return nil
			})
		},
	}
}

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the chord list with one read from FILE (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return g.withApp(ctx, func(app *state.App) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					r = f
				}
				if err := app.Import(ctx, r); err != nil {
					return fmt.Errorf("invalid JSON file %s: %w", args[0], err)
				}
				return nil
			})
		},
	}
}
