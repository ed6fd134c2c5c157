// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/file.go
// Summary: Durable TOML snapshot of the configuration.
// Usage: Read once at startup; rewritten in full after every successful
// mutation. Bar layout belongs to the file only and is preserved from the
// last load.

package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File is the on-disk configuration shape.
type File struct {
	Color            string   `toml:"color"`
	Thickness        uint32   `toml:"thickness"`
	Opacity          float64  `toml:"opacity"`
	Glow             uint32   `toml:"glow"`
	CornerRadius     float64  `toml:"corner_radius"`
	Animation        string   `toml:"animation"`
	AnimationSpeed   uint32   `toml:"animation_speed"`
	BarHeight        uint32   `toml:"bar_height"`
	BarPosition      string   `toml:"bar_position"`
	DisabledMonitors []string `toml:"disabled_monitors"`
}

// Load reads the config file, falling back to defaults when it is missing
// or unparsable. A broken file is logged and ignored, never fatal.
func Load() File {
	f := Defaults()
	path, err := FilePath()
	if err != nil {
		log.Printf("config: cannot resolve config path: %v", err)
		return f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: failed to read %s: %v", path, err)
		}
		return f
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		log.Printf("config: failed to parse %s: %v", path, err)
		return Defaults()
	}
	return f
}

// Save writes the full snapshot to disk, creating the directory if needed.
func (f File) Save() error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Saver persists store state into the file snapshot, carrying the bar
// fields loaded at startup since the store does not own them.
type Saver struct {
	store       *Store
	barHeight   uint32
	barPosition string
}

// NewSaver captures the bar layout from the startup load.
func NewSaver(store *Store, loaded File) *Saver {
	return &Saver{store: store, barHeight: loaded.BarHeight, barPosition: loaded.BarPosition}
}

// Save writes the current store state. Failures are logged, not returned:
// a missed save never interrupts the control plane or rendering.
func (s *Saver) Save() {
	snap := s.store.Snapshot()
	f := File{
		Color:            HexColor(snap.ColorR, snap.ColorG, snap.ColorB),
		Thickness:        snap.Thickness,
		Opacity:          snap.Opacity,
		Glow:             snap.Glow,
		CornerRadius:     snap.CornerRadius,
		Animation:        snap.Animation.String(),
		AnimationSpeed:   snap.AnimationSpeed,
		BarHeight:        s.barHeight,
		BarPosition:      s.barPosition,
		DisabledMonitors: s.store.DisabledMonitors(),
	}
	if err := f.Save(); err != nil {
		log.Printf("config: failed to save: %v", err)
	}
}
