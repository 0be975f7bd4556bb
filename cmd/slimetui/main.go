// Command slimetui runs the simulation in a terminal. Each character cell
// shows two field samples using a half-block glyph; the mouse paints with the
// selected brush.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	simsPerFrame := flag.Int("sims-per-frame", 0, "Ticks per frame (0 = config value)")
	fps := flag.Int("fps", 30, "Target frames per second")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	exportDir := flag.String("export-dir", ".", "Directory for exported PNG frames")
	flag.Parse()

	// The terminal is the display, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := run(*configPath, *seed, *simsPerFrame, *fps, *exportDir); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, simsPerFrame, fps int, exportDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed == 0 {
		seed = cfg.Sim.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if simsPerFrame <= 0 {
		simsPerFrame = cfg.Sim.SimsPerFrame
	}

	s, err := sim.New(cfg, sim.Options{Seed: seed})
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	defer s.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	v := NewViewer(screen, s, simsPerFrame)
	v.exportDir = exportDir

	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.Update()
			v.Draw()
		}
	}
}
