package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("world:\n  width: 32\n  height: 32\nspecies:\n  dirs: [a]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	eo := &EnvOptions{
		configPath:  path,
		height:      16,
		interval:    5 * time.Millisecond,
		noEntropy:   true,
		speciesDirs: []string{"b"},
		seed:        3,
	}
	cfg, err := loadConfig(eo)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.Width != 32 || cfg.World.Height != 16 {
		t.Fatalf("world = %+v", cfg.World)
	}
	if cfg.Engine.Interval != 5*time.Millisecond || cfg.Entropy.Enabled || cfg.Seed != 3 {
		t.Fatalf("config = %+v", cfg)
	}
	if len(cfg.Species.Dirs) != 2 || cfg.Species.Dirs[1] != "b" {
		t.Fatalf("dirs = %v", cfg.Species.Dirs)
	}
}

func TestLoadConfigValidatesFlags(t *testing.T) {
	if _, err := loadConfig(&EnvOptions{history: 1}); err == nil {
		t.Fatal("history of one slot must fail")
	}
	if _, err := loadConfig(&EnvOptions{logLevel: "chatty"}); err == nil {
		t.Fatal("bad log level must fail")
	}
	if _, err := loadConfig(&EnvOptions{formats: []string{"gif"}}); err == nil {
		t.Fatal("unknown species format must fail")
	}
	cfg, err := loadConfig(&EnvOptions{formats: []string{"rle"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Species.Formats) != 1 || cfg.Species.Formats[0] != "rle" {
		t.Fatalf("formats = %v", cfg.Species.Formats)
	}
}

func TestNewLoggerDiscardsInInteractiveMode(t *testing.T) {
	cfg, err := loadConfig(&EnvOptions{})
	if err != nil {
		t.Fatal(err)
	}
	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()
	logger.Info("not visible")

	cfg.Log.File = filepath.Join(t.TempDir(), "run.log")
	logger, closeFile, err := newLogger(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("visible")
	closeFile()
	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}
}

func TestQuitOnDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan struct{})
	release := quitOnDone(ctx, func() { close(quit) })
	cancel()
	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("quit was not called after the context ended")
	}
	release()

	ctx, cancel = context.WithCancel(context.Background())
	called := make(chan struct{}, 1)
	release = quitOnDone(ctx, func() { called <- struct{}{} })
	release()
	release()
	cancel()
	select {
	case <-called:
		t.Fatal("quit called after release")
	case <-time.After(50 * time.Millisecond):
	}
}
