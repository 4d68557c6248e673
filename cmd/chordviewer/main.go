// Command chordviewer looks up guitar chords, keeps a chord list and plays
// chords through MIDI, a terminal UI, an HTTP API or the string robot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chase3718/chordviewer/internal/config"
)

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and calls slog.SetDefault so
// library packages log through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// globals holds the persistent flags and the configuration they resolve to.
type globals struct {
	cfgFile      string
	debug        bool
	dbSource     string
	stateBackend string
	stateDir     string
	transpose    int

	cfg *config.Config
}

// applyFlags lets explicitly set flags win over file and environment.
func (g *globals) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		g.cfg.Debug = g.debug
	}
	if flags.Changed("db") {
		g.cfg.Database.Source = g.dbSource
	}
	if flags.Changed("state-backend") {
		g.cfg.State.Backend = g.stateBackend
	}
	if flags.Changed("state-dir") {
		g.cfg.State.Dir = g.stateDir
	}
	if flags.Changed("transpose") {
		g.cfg.Player.Transpose = g.transpose
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "chordviewer",
		Short: "Guitar chord lookup, diagrams and playback",
		Long: `chordviewer resolves chord names like "C#m7" against a chord database,
draws their fingerings, keeps a persistent chord list and plays chords
through MIDI, a MIDI file or the serial string robot.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.cfgFile)
			if err != nil {
				return err
			}
			g.cfg = cfg
			g.applyFlags(cmd)
			if err := g.cfg.Validate(); err != nil {
				return err
			}
			initLogger(g.cfg.Debug)
			logger.Debug("config loaded", "db", g.cfg.Database.Source, "state", g.cfg.State.Backend)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", "", "config file (default ./"+config.DefaultFile+")")
	pf.BoolVar(&g.debug, "debug", false, "enable debug logging")
	pf.StringVar(&g.dbSource, "db", "", `chord database: "embedded", a file, or an http(s) URL`)
	pf.StringVar(&g.stateBackend, "state-backend", "", "chord list store: file, sqlite, s3, memory")
	pf.StringVar(&g.stateDir, "state-dir", "", "directory for the file store")
	pf.IntVar(&g.transpose, "transpose", 0, "semitones added to every pitch before playback")

	root.AddCommand(
		newShowCmd(g),
		newKeysCmd(g),
		newListCmd(g),
		newAddCmd(g),
		newRemoveCmd(g),
		newSelectCmd(g),
		newExportCmd(g),
		newImportCmd(g),
		newPlayCmd(g),
		newMIDIFileCmd(g),
		newRobotCmd(g),
		newServeCmd(g),
		newTUICmd(g),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
