package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chase3718/chordviewer/player"
	"github.com/chase3718/chordviewer/robot"
)

func newPlayCmd(g *globals) *cobra.Command {
	var (
		variation int
		listPorts bool
		backend   string
		port      string
	)
	cmd := &cobra.Command{
		Use:   "play CHORD...",
		Short: "Sound chords through the configured player",
		Example: `  chordviewer play C G Am F --player midi
  chordviewer play --list-ports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listPorts {
				names, err := player.ListOutputs()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}
			if len(args) == 0 {
				return errors.New("play: name at least one chord")
			}
			if backend != "" {
				g.cfg.Player.Backend = backend
			}
			if port != "" {
				g.cfg.Player.Port = port
			}
			ctx := cmd.Context()
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			p, closePlayer, err := g.openPlayer()
			if err != nil {
				return err
			}
			defer closePlayer()
			for _, name := range args {
				res, err := db.Resolve(name, variation)
				if err != nil {
					return err
				}
				pitches := res.Position.Pitches()
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, player.PitchNames(pitches))
				if err := p.Play(ctx, pitches); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&variation, "variation", "n", 0, "fingering to play")
	cmd.Flags().BoolVar(&listPorts, "list-ports", false, "list MIDI outputs and exit")
	cmd.Flags().StringVar(&backend, "player", "", "player backend: midi or log")
	cmd.Flags().StringVar(&port, "port", "", "MIDI output name substring")
	return cmd
}

func newMIDIFileCmd(g *globals) *cobra.Command {
	var (
		variation int
		output    string
	)
	cmd := &cobra.Command{
		Use:   "midi-file CHORD",
		Short: "Write a chord as a Standard MIDI File",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			res, err := db.Resolve(args[0], variation)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.NewReplacer("#", "sharp", "/", "_").Replace(args[0]) + ".mid"
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			w := &player.SMFWriter{W: f, Title: args[0], Opts: g.playerOptions()}
			if err := w.Play(ctx, res.Position.Pitches()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info("midi file written", "path", output, "chord", args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&variation, "variation", "n", 0, "fingering to write")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default CHORD.mid)")
	return cmd
}

func newRobotCmd(g *globals) *cobra.Command {
	var (
		variation int
		device    string
		list      bool
		release   bool
	)
	cmd := &cobra.Command{
		Use:   "robot [CHORD]",
		Short: "Fret and strum a chord on the serial string robot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				ports, err := robot.ListPorts()
				if err != nil {
					return err
				}
				for _, p := range ports {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			}
			if device != "" {
				g.cfg.Robot.Device = device
			}
			if !release && len(args) == 0 {
				return errors.New("robot: name a chord or pass --release")
			}
			ctx := cmd.Context()
			port, err := robot.OpenSerial(g.cfg.Robot.Device, g.cfg.Robot.Baud, logger)
			if err != nil {
				return err
			}
			defer port.Close()
			if release {
				return port.Release()
			}
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}
			res, err := db.Resolve(args[0], variation)
			if err != nil {
				return err
			}
			return port.SendShape(res.Position)
		},
	}
	cmd.Flags().IntVarP(&variation, "variation", "n", 0, "fingering to fret")
	cmd.Flags().StringVar(&device, "device", "", "serial device (default from config)")
	cmd.Flags().BoolVar(&list, "list", false, "list serial ports and exit")
	cmd.Flags().BoolVar(&release, "release", false, "lift every string")
	return cmd
}
