// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTheme(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	themeDir := filepath.Join(dir, "omarchy", "current", "theme")
	if err := os.MkdirAll(themeDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(themeDir, "colors.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestAccentColorParsesTheme(t *testing.T) {
	writeTheme(t, `accent = "#89b4fa"`+"\n"+`background = "#1e1e2e"`+"\n")
	r, g, b, ok := AccentColor()
	if !ok {
		t.Fatalf("expected accent color")
	}
	if r != 0x89 || g != 0xb4 || b != 0xfa {
		t.Fatalf("got %02x%02x%02x", r, g, b)
	}
}

func TestAccentColorMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, _, _, ok := AccentColor(); ok {
		t.Fatalf("missing theme must report not ok")
	}
}

func TestAccentColorEmptyAccent(t *testing.T) {
	writeTheme(t, `background = "#1e1e2e"`+"\n")
	if _, _, _, ok := AccentColor(); ok {
		t.Fatalf("theme without accent must report not ok")
	}
}

func TestAccentColorBrokenToml(t *testing.T) {
	writeTheme(t, `accent = "#89b4fa`)
	if _, _, _, ok := AccentColor(); ok {
		t.Fatalf("broken theme must report not ok")
	}
}

func TestInstalled(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if Installed() {
		t.Fatalf("fresh config dir must not look installed")
	}
	writeTheme(t, `accent = "#89b4fa"`+"\n")
	if !Installed() {
		t.Fatalf("theme dir present but Installed is false")
	}
}
