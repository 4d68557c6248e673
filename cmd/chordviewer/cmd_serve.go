package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chase3718/chordviewer/chorddb"
	"github.com/chase3718/chordviewer/server"
	"github.com/chase3718/chordviewer/state"
	"github.com/chase3718/chordviewer/tui"
)

// saveOnExit persists the chord list after the surface stops, with a fresh
// context since the run context is usually cancelled by then.
func saveOnExit(save func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := save(ctx); err != nil {
		logger.Error("saving chord list on exit", "err", err)
	}
}

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chord API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				g.cfg.Server.Addr = addr
			}
			ctx := cmd.Context()
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			app, closeStore, err := g.openApp(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			defer saveOnExit(app.Save)
			p, closePlayer, err := g.openPlayer()
			if err != nil {
				return err
			}
			defer closePlayer()

			srv := server.New(db, app, p, logger)
			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return srv.Run(ctx, g.cfg.Server.Addr, g.cfg.Server.ShutdownTimeout)
			})
			if src := g.cfg.Database.Source; g.cfg.Database.Watch && watchable(src) {
				w := &chorddb.Watcher{Path: src, OnReload: srv.SetDB, Logger: logger}
				eg.Go(func() error { return w.Run(ctx) })
			}
			return eg.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// watchable reports whether a database source is a local file.
func watchable(source string) bool {
	if source == "" || source == "embedded" || chorddb.IsRemote(source) {
		return false
	}
	_, err := os.Stat(source)
	return err == nil
}

func newTUICmd(g *globals) *cobra.Command {
	var exportDir string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive chord board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			app, closeStore, err := g.openApp(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			defer saveOnExit(app.Save)
			p, closePlayer, err := g.openPlayer()
			if err != nil {
				return err
			}
			defer closePlayer()
			return tui.Run(ctx, tui.New(ctx, db, app, p, exportDir))
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "where save and open read and write "+state.ExportFileName)
	return cmd
}
