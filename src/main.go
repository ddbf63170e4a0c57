package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/integrii/flaggy"

	"entropylife/src/config"
	"entropylife/src/species"
	"entropylife/src/telemetry"
	"entropylife/src/universe"
	"entropylife/src/view"
)

type EnvOptions struct {
	configPath  string
	interactive bool
	randomData  bool
	noEntropy   bool
	noColor     bool
	speciesDirs []string
	formats     []string

	width           int
	height          int
	history         int
	interval        time.Duration
	entropyInterval time.Duration
	maxSteps        int
	workers         int
	seed            int64
	telemetry       string
	logLevel        string
	logFile         string
}

func main() {
	eo := initOptions()

	cfg, err := loadConfig(eo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg, eo.interactive)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	u := universe.New(&universe.Options{
		Width:   cfg.World.Width,
		Height:  cfg.World.Height,
		History: cfg.World.History,
	})
	loadSpecies(u, cfg, logger)

	if cfg.World.RandomFill {
		if err := u.SettleWithRandomData(seed, cfg.World.FillDensity); err != nil {
			logger.Error("random fill failed", "error", err)
		}
	}

	queue := universe.NewEventQueue()
	engine := universe.NewEngine(u, queue, universe.EngineOptions{
		Interval: cfg.Engine.Interval,
		Workers:  cfg.Engine.Workers,
		MaxSteps: cfg.Engine.MaxSteps,
		Seed:     seed,
		Logger:   logger,
	})
	entropy := universe.NewEntropySource(u, queue, universe.EntropyOptions{
		Interval: cfg.Entropy.Interval,
		Seed:     seed + 1,
		Logger:   logger,
	})

	recorder, err := telemetry.NewRecorder(cfg.Telemetry.Output, cfg.Telemetry.LogEvery, logger)
	if err != nil {
		logger.Error("telemetry disabled", "error", err)
	} else if recorder != nil {
		defer recorder.Close()
		engine.RegisterViewer(recorder)
		if cfg.Telemetry.Output != "" {
			snapshot := strings.TrimSuffix(cfg.Telemetry.Output, filepath.Ext(cfg.Telemetry.Output)) + ".config.yaml"
			if err := cfg.WriteYAML(snapshot); err != nil {
				logger.Warn("config snapshot not written", "error", err)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ui *view.ConsoleUI
	var out *view.ConsoleOut
	if eo.interactive {
		ui, err = view.NewViewTerminal(u, engine, queue)
		if err != nil {
			logger.Error("interactive mode unavailable", "error", err)
			os.Exit(1)
		}
		engine.RegisterViewer(ui)
	} else {
		out = view.NewConsoleOut(os.Stdout, 10, !eo.noColor)
		engine.RegisterViewer(out)
		out.Register(u, engine, map[string]interface{}{
			"Entropy interval": cfg.Entropy.Interval,
			"Entropy enabled":  cfg.Entropy.Enabled,
			"Seed":             seed,
		})
		out.Start()
	}

	var wg sync.WaitGroup
	engineDone := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(engineDone)
		engine.Run(ctx)
	}()
	if cfg.Entropy.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entropy.Run(ctx)
		}()
	}

	if ui != nil {
		release := quitOnDone(ctx, ui.Stop)
		if err := ui.Start(); err != nil {
			logger.Error("terminal ui failed", "error", err)
		}
		release()
	} else {
		select {
		case <-ctx.Done():
		case <-engineDone:
		}
	}
	stop()
	wg.Wait()
	if out != nil {
		out.Finish(u)
	}
}

func initOptions() *EnvOptions {
	eo := &EnvOptions{}
	flaggy.SetName("entropylife")
	flaggy.SetDescription("\"The Life\" on a torus, kept alive by random species injections")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.configPath, "c", "config", "Path to config.yaml (empty = use defaults)")
	flaggy.Int(&eo.width, "x", "width", "Width of the world")
	flaggy.Int(&eo.height, "y", "height", "Height of the world")
	flaggy.Int(&eo.history, "t", "history", "Time slots kept in the spacetime buffer")
	flaggy.Duration(&eo.interval, "i", "interval", "Delay between the engine ticks, for example 150ms")
	flaggy.Duration(&eo.entropyInterval, "e", "entropy", "Delay between the entropy proposals, for example 10s")
	flaggy.Int(&eo.maxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Int(&eo.workers, "w", "workers", "Row bands computed in parallel")
	flaggy.Int64(&eo.seed, "r", "seed", "RNG seed")
	flaggy.StringSlice(&eo.speciesDirs, "p", "species", "Directory with .cells/.rle/.lif species files (repeatable)")
	flaggy.StringSlice(&eo.formats, "f", "format", "Species format to load [plaintext|rle] (repeatable, replaces the config list)")
	flaggy.String(&eo.telemetry, "o", "output", "CSV file with one row per tick")
	flaggy.String(&eo.logLevel, "l", "log-level", "Log level [debug|info|warn|error]")
	flaggy.String(&eo.logFile, "", "log-file", "Write logs to the file")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "", "random", "Settle the first generation with random data")
	flaggy.Bool(&eo.noEntropy, "", "no-entropy", "Do not inject random species")
	flaggy.Bool(&eo.noColor, "", "no-color", "Plain console output")

	flaggy.Parse()
	return eo
}

// loadConfig loads the config file and applies the flags which were set
func loadConfig(eo *EnvOptions) (*config.Config, error) {
	cfg, err := config.Load(eo.configPath)
	if err != nil {
		return nil, err
	}
	if eo.width > 0 {
		cfg.World.Width = eo.width
	}
	if eo.height > 0 {
		cfg.World.Height = eo.height
	}
	if eo.history > 0 {
		cfg.World.History = eo.history
	}
	if eo.randomData {
		cfg.World.RandomFill = true
	}
	if eo.interval > 0 {
		cfg.Engine.Interval = eo.interval
	}
	if eo.entropyInterval > 0 {
		cfg.Entropy.Interval = eo.entropyInterval
	}
	if eo.noEntropy {
		cfg.Entropy.Enabled = false
	}
	if eo.maxSteps > 0 {
		cfg.Engine.MaxSteps = eo.maxSteps
	}
	if eo.workers > 0 {
		cfg.Engine.Workers = eo.workers
	}
	if eo.seed != 0 {
		cfg.Seed = eo.seed
	}
	if len(eo.speciesDirs) > 0 {
		cfg.Species.Dirs = append(cfg.Species.Dirs, eo.speciesDirs...)
	}
	if len(eo.formats) > 0 {
		cfg.Species.Formats = eo.formats
	}
	if _, err := species.ParseFormats(cfg.Species.Formats); err != nil {
		return nil, fmt.Errorf("config: species.formats: %w", err)
	}
	if eo.telemetry != "" {
		cfg.Telemetry.Output = eo.telemetry
	}
	if eo.logLevel != "" {
		cfg.Log.Level = eo.logLevel
	}
	if eo.logFile != "" {
		cfg.Log.File = eo.logFile
	}
	return cfg, cfg.Validate()
}

// newLogger builds the text logger, the terminal belongs to the ui in interactive mode
func newLogger(cfg *config.Config, interactive bool) (*slog.Logger, func(), error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closer = func() { _ = f.Close() }
	case interactive:
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

func loadSpecies(u *universe.Universe, cfg *config.Config, logger *slog.Logger) {
	//validated by loadConfig
	formats, _ := species.ParseFormats(cfg.Species.Formats)
	for _, f := range formats {
		logger.Debug("species format enabled", "format", f, "extensions", f.Extensions())
	}
	if cfg.Species.Builtin {
		n, err := species.LoadBuiltin(u, logger, formats...)
		if err != nil {
			logger.Error("builtin species not loaded", "error", err)
		}
		logger.Info("builtin species loaded", "files", n)
	}
	for _, dir := range cfg.Species.Dirs {
		n, err := species.LoadDir(u, dir, logger, formats...)
		if err != nil {
			logger.Warn("species directory skipped", "dir", dir, "error", err)
			continue
		}
		logger.Info("species loaded", "dir", dir, "files", n)
	}
	logger.Info("species ready", "patterns", len(u.Patterns()))
}

// quitOnDone calls quit once ctx is done, unless release was called before
func quitOnDone(ctx context.Context, quit func()) (release func()) {
	released := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			select {
			case <-released:
			default:
				quit()
			}
		case <-released:
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(released) }) }
}
