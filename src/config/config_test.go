package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.Width != 1024 || cfg.World.Height != 1024 || cfg.World.History != 100 {
		t.Fatalf("world = %+v", cfg.World)
	}
	if cfg.Engine.Interval != 100*time.Millisecond || cfg.Entropy.Interval != 10*time.Second {
		t.Fatalf("intervals = %v, %v", cfg.Engine.Interval, cfg.Entropy.Interval)
	}
	if !cfg.Entropy.Enabled || !cfg.Species.Builtin {
		t.Fatal("entropy and builtin species are on by default")
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("world:\n  width: 64\nengine:\n  interval: 5ms\nspecies:\n  dirs: [patterns]\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.Width != 64 || cfg.World.Height != 1024 {
		t.Fatalf("world = %+v", cfg.World)
	}
	if cfg.Engine.Interval != 5*time.Millisecond || cfg.Entropy.Interval != 10*time.Second {
		t.Fatalf("intervals = %v, %v", cfg.Engine.Interval, cfg.Entropy.Interval)
	}
	if len(cfg.Species.Dirs) != 1 || cfg.Species.Dirs[0] != "patterns" {
		t.Fatalf("dirs = %v", cfg.Species.Dirs)
	}
	if l, _ := cfg.LogLevel(); l != slog.LevelDebug {
		t.Fatalf("level = %v", l)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero width":    "world:\n  width: 0\n",
		"short history": "world:\n  history: 1\n",
		"density":       "world:\n  fill_density: 1.5\n",
		"negative":      "engine:\n  interval: -1s\n",
		"level":         "log:\n  level: loud\n",
		"syntax":        "world: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Seed = 99
	cfg.Engine.Interval = 250 * time.Millisecond
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Seed != 99 || back.Engine.Interval != 250*time.Millisecond {
		t.Fatalf("round trip = %+v", back)
	}
}
