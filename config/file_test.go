// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	f := Load()
	if !reflect.DeepEqual(f, Defaults()) {
		t.Fatalf("expected defaults, got %+v", f)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	f := Defaults()
	f.Color = "ff8800"
	f.Thickness = 120
	f.BarPosition = "left"
	f.DisabledMonitors = []string{"DP-2"}
	if err := f.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := Load()
	if got.Color != "ff8800" || got.Thickness != 120 || got.BarPosition != "left" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.DisabledMonitors) != 1 || got.DisabledMonitors[0] != "DP-2" {
		t.Fatalf("disabled monitors lost: %+v", got.DisabledMonitors)
	}
}

func TestBrokenFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := FilePath()
	if err != nil {
		t.Fatalf("FilePath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("thickness = 'not a number"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := Load()
	if !reflect.DeepEqual(f, Defaults()) {
		t.Fatalf("expected defaults for broken file, got %+v", f)
	}
}

func TestSaverPreservesBarLayoutAndState(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded := Defaults()
	loaded.BarHeight = 42
	loaded.BarPosition = "bottom"

	store := NewStore(loaded)
	store.SetColor(0xff, 0x00, 0x00)
	store.Upsert("DP-1", "main")
	store.Toggle("DP-1")

	NewSaver(store, loaded).Save()

	got := Load()
	if got.Color != "ff0000" {
		t.Fatalf("color not persisted: %q", got.Color)
	}
	if got.BarHeight != 42 || got.BarPosition != "bottom" {
		t.Fatalf("bar layout not preserved: %+v", got)
	}
	if len(got.DisabledMonitors) != 1 || got.DisabledMonitors[0] != "DP-1" {
		t.Fatalf("disabled monitors not persisted: %+v", got.DisabledMonitors)
	}
}
