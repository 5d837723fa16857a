package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Hazard.Cap != 7 {
		t.Errorf("Hazard.Cap = %d, want 7", cfg.Hazard.Cap)
	}
	if cfg.Hazard.SpawnInterval != 180 {
		t.Errorf("Hazard.SpawnInterval = %d, want 180", cfg.Hazard.SpawnInterval)
	}
	if cfg.Derived.Is3D {
		t.Error("default world should be flat")
	}
	if cfg.Derived.SlotCount != cfg.Collectible.Rings*cfg.Collectible.SlotsPerRing {
		t.Errorf("SlotCount = %d", cfg.Derived.SlotCount)
	}
	if cfg.Derived.TicksPerWindow != 600 {
		t.Errorf("TicksPerWindow = %d, want 600", cfg.Derived.TicksPerWindow)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := "world:\n  depth: 800\nbomb:\n  cooldown: 42\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Bomb.Cooldown != 42 {
		t.Errorf("Bomb.Cooldown = %d, want 42", cfg.Bomb.Cooldown)
	}
	// Untouched fields keep their defaults
	if cfg.Bomb.SafeTime != 180 {
		t.Errorf("Bomb.SafeTime = %d, want 180", cfg.Bomb.SafeTime)
	}
	if !cfg.Derived.Is3D || cfg.Derived.HalfD != 400 {
		t.Errorf("Derived depth = %v/%g, want 3D/400", cfg.Derived.Is3D, cfg.Derived.HalfD)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"friction one", func(c *Config) { c.Player.Friction = 1 }, "player.friction"},
		{"friction zero", func(c *Config) { c.Player.Friction = 0 }, "player.friction"},
		{"zero floor", func(c *Config) { c.Hazard.IntervalFloor = 0 }, "interval floors"},
		{"no rings", func(c *Config) { c.Collectible.Rings = 0 }, "slot layout"},
		{"bad smoothing", func(c *Config) { c.Camera.Smoothing = 1.5 }, "camera.smoothing"},
		{"negative depth", func(c *Config) { c.World.Depth = -1 }, "world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Hazard.Cap = 3
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Hazard.Cap != 3 {
		t.Errorf("Hazard.Cap = %d, want 3", loaded.Hazard.Cap)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}
