// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package overlay

import (
	"net"
	"path/filepath"
	"testing"

	"ringlight/config"
	"ringlight/wayland"
)

func TestBarMarginsOnePerPosition(t *testing.T) {
	cases := []struct {
		pos                      config.BarPosition
		top, right, bottom, left int32
	}{
		{config.BarTop, 35, 0, 0, 0},
		{config.BarBottom, 0, 0, 35, 0},
		{config.BarLeft, 0, 0, 0, 35},
		{config.BarRight, 0, 35, 0, 0},
	}
	for _, c := range cases {
		top, right, bottom, left := barMargins(c.pos, 35)
		if top != c.top || right != c.right || bottom != c.bottom || left != c.left {
			t.Fatalf("%v: got %d %d %d %d", c.pos, top, right, bottom, left)
		}
	}
}

func TestConnectorIDPrefersName(t *testing.T) {
	out := &wayland.Output{Name: "DP-3"}
	if got := connectorID(out); got != "DP-3" {
		t.Fatalf("got %q", got)
	}
}

func TestConnectorIDSynthesizesWhenUnnamed(t *testing.T) {
	out := &wayland.Output{}
	if got := connectorID(out); got != "output-0" {
		t.Fatalf("got %q", got)
	}
}

func TestDrawWaitsForFirstConfigure(t *testing.T) {
	m := &Manager{rings: map[uint32]*ring{
		7: {connector: "DP-1", width: 64, height: 64, firstConfigure: true},
	}}
	// Must return before touching the nil pool.
	m.draw(7)
}

// dialCompositor stands up a listening socket so Connect and the global
// binds succeed; nothing ever reads the far end.
func dialCompositor(t *testing.T) *wayland.Conn {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("WAYLAND_DISPLAY", "wl-test")
	l, err := net.Listen("unix", filepath.Join(dir, "wl-test"))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	conn, err := wayland.Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return conn
}

func TestCreateRingFailureLeavesNoState(t *testing.T) {
	conn := dialCompositor(t)
	store := config.NewStore(config.Defaults())
	m := NewManager(conn, store, 35, config.BarTop)
	m.globalAdded(1, "wl_compositor", 4)
	m.globalAdded(2, "wl_shm", 1)
	m.globalAdded(3, wayland.LayerShellInterface, 4)
	if m.compositor == nil || m.shm == nil || m.layerShell == nil {
		t.Fatalf("globals failed to bind")
	}

	conn.Close()
	if err := m.createRing(&wayland.Output{}, "DP-1", "dead"); err == nil {
		t.Fatalf("createRing on a dead connection must fail")
	}
	if len(m.rings) != 0 {
		t.Fatalf("failed createRing must leave no ring, got %d", len(m.rings))
	}
	if monitors := store.Monitors(); len(monitors) != 0 {
		t.Fatalf("failed createRing must not register the display: %+v", monitors)
	}
}

func TestDisplayNamePreferenceOrder(t *testing.T) {
	cases := []struct {
		make, model string
		want        string
	}{
		{"Dell", "U2720Q", "Dell U2720Q"},
		{"Dell", "", "Dell"},
		{"", "U2720Q", "U2720Q"},
		{"", "", "DP-1"},
	}
	for _, c := range cases {
		out := &wayland.Output{Make: c.make, Model: c.model}
		if got := displayName(out, "DP-1"); got != c.want {
			t.Fatalf("make=%q model=%q: got %q", c.make, c.model, got)
		}
	}
}
