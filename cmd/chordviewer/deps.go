package main

import (
	"context"
	"fmt"

	"github.com/chase3718/chordviewer/chorddb"
	"github.com/chase3718/chordviewer/player"
	"github.com/chase3718/chordviewer/state"
)

func (g *globals) openDB(ctx context.Context) (*chorddb.DB, error) {
	src := g.cfg.Database.Source
	db, err := chorddb.Open(ctx, src, chorddb.NewCachedClient(g.cfg.HTTPCacheDir(), g.cfg.Database.CacheTTL))
	if err != nil {
		return nil, err
	}
	logger.Debug("chord database opened", "source", src, "keys", len(db.Keys()))
	return db, nil
}

// openApp opens the configured store and loads the chord list from it. The
// returned close func releases the store.
func (g *globals) openApp(ctx context.Context) (*state.App, func() error, error) {
	sc := g.cfg.State
	noop := func() error { return nil }
	var store state.Store
	closeFn := noop
	switch sc.Backend {
	case "file":
		store = state.FileStore{Dir: sc.Dir}
	case "sqlite":
		s, err := state.OpenSQLite(ctx, sc.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		store, closeFn = s, s.Close
	case "s3":
		s, err := state.NewS3Store(ctx, sc.S3Bucket, sc.S3Prefix)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Check(ctx); err != nil {
			return nil, nil, err
		}
		store = s
	case "memory":
		store = &state.MemStore{}
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", sc.Backend)
	}
	app := state.New(store, logger)
	if err := app.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return app, closeFn, nil
}

func (g *globals) playerOptions() player.Options {
	pc := g.cfg.Player
	return player.Options{
		Transpose: pc.Transpose,
		Channel:   pc.Channel,
		Velocity:  pc.Velocity,
		Duration:  pc.Duration,
		Strum:     pc.Strum,
	}
}

// openPlayer returns the configured player and a func releasing it.
func (g *globals) openPlayer() (player.Player, func() error, error) {
	opts := g.playerOptions()
	if opts.Transpose != 0 {
		logger.Debug("pitches transposed before playback", "semitones", opts.Transpose)
	}
	switch g.cfg.Player.Backend {
	case "midi":
		out, err := player.OpenMIDIOut(g.cfg.Player.Port, opts, logger)
		if err != nil {
			return nil, nil, err
		}
		return out, out.Close, nil
	default:
		return &player.LogPlayer{Opts: opts, Logger: logger}, func() error { return nil }, nil
	}
}
