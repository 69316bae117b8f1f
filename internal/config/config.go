package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MQTT configures the optional frame stream for remote pixel displays.
type MQTT struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"clientId"`
}

// Config is the application configuration: YAML file first, command-line
// flags overlaid on top.
type Config struct {
	SheetPath    string  `yaml:"sheet"`
	DocumentPath string  `yaml:"animations"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	Background   string  `yaml:"background"`
	TransitionMs float64 `yaml:"transitionMs"`
	Listen       string  `yaml:"listen"`
	Output       string  `yaml:"output"`
	Duration     float64 `yaml:"duration"`
	Animation    string  `yaml:"animation"`
	VideoEncoder string  `yaml:"videoEncoder"`
	Quality      int     `yaml:"quality"`
	ShowStats    bool    `yaml:"showStats"`
	Mqtt         MQTT    `yaml:"mqtt"`

	BuildVersion string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Width:        512,
		Height:       512,
		FPS:          30,
		TransitionMs: 250,
		Listen:       ":3000",
		Duration:     4.0,
		Mqtt: MQTT{
			ClientID: "spritecast",
			Topic:    "spritecast/frames",
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
