package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Ring   RingConfig   `yaml:"ring"`
	Feed   FeedConfig   `yaml:"feed"`
	PPS    PPSConfig    `yaml:"pps"`
	Replay ReplayConfig `yaml:"replay"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type RingConfig struct {
	// Capacity of the receive ring in bytes; must be a power of two.
	Capacity int `yaml:"capacity"`
}

type FeedConfig struct {
	// Dest is the host:port the framed position records are sent to.
	Dest string `yaml:"dest"`
	// Verify re-parses each decoded sentence with a full NMEA parser and
	// logs divergence. Debug aid; off by default.
	Verify bool `yaml:"verify"`
}

type PPSConfig struct {
	Enable bool `yaml:"enable"`
	Pin    int  `yaml:"pin"`
}

type ReplayConfig struct {
	// Enable reads sentences from Path instead of the serial device.
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
	Loop   bool   `yaml:"loop"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if te, ok := err.(*yaml.TypeError); ok {
			return Config{}, fmt.Errorf("config contains unknown fields: %s", strings.Join(te.Errors, "; "))
		}
		return Config{}, err
	}

	if cfg.Feed.Dest == "" {
		return Config{}, fmt.Errorf("feed.dest is required")
	}

	if cfg.Ring.Capacity == 0 {
		cfg.Ring.Capacity = 1024
	}
	if cfg.Ring.Capacity < 0 || cfg.Ring.Capacity&(cfg.Ring.Capacity-1) != 0 {
		return Config{}, fmt.Errorf("ring.capacity must be a power of two, got %d", cfg.Ring.Capacity)
	}

	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 9600
	}

	if cfg.Replay.Enable {
		if cfg.Replay.Path == "" {
			return Config{}, fmt.Errorf("replay.path is required when replay.enable is true")
		}
	} else if cfg.Serial.Device == "" {
		return Config{}, fmt.Errorf("serial.device is required unless replay.enable is true")
	}

	if cfg.PPS.Enable && cfg.PPS.Pin <= 0 {
		return Config{}, fmt.Errorf("pps.pin is required when pps.enable is true")
	}

	return cfg, nil
}
