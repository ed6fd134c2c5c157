// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: theme/theme.go
// Summary: Omarchy theme integration: the ring follows the desktop accent
// color, reloaded on SIGUSR2 like other Omarchy-aware tools.

package theme

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/BurntSushi/toml"

	"ringlight/config"
)

// Colors is the subset of the Omarchy colors.toml the ring cares about.
type Colors struct {
	Accent     string `toml:"accent"`
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

func colorsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "omarchy", "current", "theme", "colors.toml"), nil
}

// Installed reports whether an Omarchy theme directory exists.
func Installed() bool {
	path, err := colorsPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Dir(path))
	return err == nil
}

// AccentColor reads the current theme's accent color. A missing or broken
// theme file is ignorable: the caller keeps its current color.
func AccentColor() (r, g, b uint8, ok bool) {
	path, err := colorsPath()
	if err != nil {
		return 0, 0, 0, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, 0, false
	}
	var colors Colors
	if err := toml.Unmarshal(data, &colors); err != nil {
		log.Printf("theme: failed to parse %s: %v", path, err)
		return 0, 0, 0, false
	}
	if colors.Accent == "" {
		return 0, 0, 0, false
	}
	r, g, b = config.ParseHexColor(colors.Accent)
	return r, g, b, true
}

// WatchReload applies the theme accent into the store every time SIGUSR2
// arrives. Runs for the life of the process; never joined.
func WatchReload(store *config.Store, save func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR2)
	go func() {
		for range sigs {
			r, g, b, ok := AccentColor()
			if !ok {
				continue
			}
			store.SetColor(r, g, b)
			if save != nil {
				save()
			}
			log.Printf("theme: reloaded accent color #%s", config.HexColor(r, g, b))
		}
	}()
}
