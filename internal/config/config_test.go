package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Width != 512 || cfg.Height != 512 {
		t.Errorf("Expected 512x512 surface, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 30 {
		t.Errorf("Expected 30 FPS, got %d", cfg.FPS)
	}
	if cfg.TransitionMs != 250 {
		t.Errorf("Expected 250ms transition, got %v", cfg.TransitionMs)
	}
	if cfg.Listen != ":3000" {
		t.Errorf("Expected listen :3000, got %q", cfg.Listen)
	}
	if cfg.Mqtt.Topic != "spritecast/frames" {
		t.Errorf("Unexpected default MQTT topic %q", cfg.Mqtt.Topic)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
sheet: art/hero.png
fps: 60
background: "#1a1a2e"
mqtt:
  url: tcp://broker:1883
  topic: custom/frames
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SheetPath != "art/hero.png" {
		t.Errorf("Expected sheet from file, got %q", cfg.SheetPath)
	}
	if cfg.FPS != 60 {
		t.Errorf("Expected FPS 60, got %d", cfg.FPS)
	}
	if cfg.Background != "#1a1a2e" {
		t.Errorf("Expected background from file, got %q", cfg.Background)
	}
	if cfg.Mqtt.URL != "tcp://broker:1883" || cfg.Mqtt.Topic != "custom/frames" {
		t.Errorf("MQTT section not applied: %+v", cfg.Mqtt)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Width != 512 {
		t.Errorf("Expected default width 512, got %d", cfg.Width)
	}
	if cfg.Mqtt.ClientID != "spritecast" {
		t.Errorf("Expected default MQTT client id, got %q", cfg.Mqtt.ClientID)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("fps: [broken"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}
