// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "testing"

func TestUpsertUpdatesNameWithoutTouchingEnabled(t *testing.T) {
	s := defaultStore()
	s.Upsert("DP-2", "A")
	s.Toggle("DP-2")
	s.Upsert("DP-2", "B")

	monitors := s.Monitors()
	if len(monitors) != 1 {
		t.Fatalf("expected one entry, got %d", len(monitors))
	}
	m := monitors[0]
	if m.ID != "DP-2" || m.DisplayName != "B" {
		t.Fatalf("unexpected entry %+v", m)
	}
	if m.Enabled {
		t.Fatalf("second upsert must not reset the enabled flag")
	}
}

func TestEnabledIsFailOpenForUnknownIDs(t *testing.T) {
	s := defaultStore()
	if !s.Enabled("HDMI-A-1") {
		t.Fatalf("unknown id must report enabled")
	}
}

func TestToggleAndSetEnabled(t *testing.T) {
	s := defaultStore()
	s.Upsert("DP-1", "Dell U2720Q")
	if !s.Enabled("DP-1") {
		t.Fatalf("first sight must default enabled")
	}
	s.Toggle("DP-1")
	if s.Enabled("DP-1") {
		t.Fatalf("toggle off failed")
	}
	s.SetEnabled("DP-1", true)
	if !s.Enabled("DP-1") {
		t.Fatalf("set enabled failed")
	}
}

func TestRemoveDropsEntry(t *testing.T) {
	s := defaultStore()
	s.Upsert("DP-1", "left")
	s.Upsert("DP-2", "right")
	s.Remove("DP-1")
	monitors := s.Monitors()
	if len(monitors) != 1 || monitors[0].ID != "DP-2" {
		t.Fatalf("unexpected registry after remove: %+v", monitors)
	}
}

func TestPersistedDisabledMonitorsApplyOnFirstSight(t *testing.T) {
	f := Defaults()
	f.DisabledMonitors = []string{"eDP-1"}
	s := NewStore(f)

	s.Upsert("eDP-1", "Built-in")
	if s.Enabled("eDP-1") {
		t.Fatalf("persisted disabled flag must apply on first sight")
	}

	// The live flag, not the persisted seed, is now the source of truth.
	s.SetEnabled("eDP-1", true)
	disabled := s.DisabledMonitors()
	if len(disabled) != 0 {
		t.Fatalf("expected no disabled monitors, got %v", disabled)
	}
}

func TestDisabledFlagSurvivesDisconnect(t *testing.T) {
	s := defaultStore()
	s.Upsert("DP-3", "spare")
	s.Toggle("DP-3")
	s.Remove("DP-3")

	disabled := s.DisabledMonitors()
	if len(disabled) != 1 || disabled[0] != "DP-3" {
		t.Fatalf("expected DP-3 parked as disabled, got %v", disabled)
	}

	// Reconnect sees the parked preference.
	s.Upsert("DP-3", "spare")
	if s.Enabled("DP-3") {
		t.Fatalf("reconnect must restore the disabled flag")
	}
}
