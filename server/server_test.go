// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bufio"
	"net"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ringlight/client"
	"ringlight/config"
	"ringlight/protocol"
)

// startServer brings up a control server on a short throwaway socket path.
// Unix socket paths cap out around 104 bytes, so the path stays terse.
func startServer(t *testing.T, store *config.Store, save func()) (*Server, *client.Client) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rl.sock")
	srv := NewServer(path, store, save)
	srv.OnQuit = srv.Close
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv, client.New(path)
}

// sendAndQueryState pipelines a mutation and GetState on one connection, so
// the reply is guaranteed to observe the mutation.
func sendAndQueryState(t *testing.T, ctl *client.Client, srv *Server, cmds ...protocol.Command) protocol.State {
	t.Helper()
	conn, err := net.Dial("unix", srv.path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	var lines []string
	for _, c := range cmds {
		line, err := protocol.EncodeCommand(c)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		lines = append(lines, string(line))
	}
	lines = append(lines, `{"cmd":"GetState"}`)
	if _, err := conn.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	st, err := protocol.DecodeState(reply)
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return st
}

func TestSetColorVisibleAcrossConnections(t *testing.T) {
	store := config.NewStore(config.Defaults())
	srv, ctl := startServer(t, store, nil)

	st := sendAndQueryState(t, ctl, srv, protocol.SetColor{Hex: "ff0000"})
	if st.Color != "ff0000" {
		t.Fatalf("color: got %q", st.Color)
	}

	// Untouched fields keep their defaults.
	if st.Thickness != 80 || st.Opacity != 1.0 || st.Glow != 80 {
		t.Fatalf("defaults disturbed: %+v", st)
	}
	if st.CornerRadius != 2.5 || st.Animation != "none" || st.AnimationSpeed != 120 {
		t.Fatalf("defaults disturbed: %+v", st)
	}
	if !st.Visible {
		t.Fatalf("daemon must start visible")
	}

	// A fresh connection sees the same state.
	got, err := ctl.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if got != st {
		t.Fatalf("fresh connection disagrees: %+v vs %+v", got, st)
	}
}

func TestMalformedLineLeavesConnectionUsable(t *testing.T) {
	store := config.NewStore(config.Defaults())
	srv, _ := startServer(t, store, nil)

	conn, err := net.Dial("unix", srv.path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	payload := "this is not json\n" +
		`{"cmd":"SetThickness","value":"wide"}` + "\n" +
		`{"cmd":"SetThickness","value":55}` + "\n" +
		`{"cmd":"GetState"}` + "\n"
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	st, err := protocol.DecodeState(reply)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Thickness != 55 {
		t.Fatalf("valid command after garbage not applied: %+v", st)
	}
}

func TestMonitorCommands(t *testing.T) {
	store := config.NewStore(config.Defaults())
	store.Upsert("DP-1", "Dell U2720Q")
	srv, ctl := startServer(t, store, nil)

	sendAndQueryState(t, ctl, srv, protocol.SetMonitorEnabled{ID: "DP-1", Enabled: false})

	monitors, err := ctl.Monitors()
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(monitors) != 1 || monitors[0].ID != "DP-1" || monitors[0].Enabled {
		t.Fatalf("unexpected registry: %+v", monitors)
	}
}

func TestMutationsInvokeSaveHook(t *testing.T) {
	store := config.NewStore(config.Defaults())
	var saves atomic.Int32
	srv, ctl := startServer(t, store, func() { saves.Add(1) })

	sendAndQueryState(t, ctl, srv, protocol.SetGlow{Pixels: 10}, protocol.SetOpacity{Opacity: 0.5})
	if got := saves.Load(); got != 2 {
		t.Fatalf("expected 2 saves, got %d", got)
	}

	// Queries do not persist.
	if _, err := ctl.State(); err != nil {
		t.Fatalf("state: %v", err)
	}
	if got := saves.Load(); got != 2 {
		t.Fatalf("query must not save, got %d", got)
	}
}

func TestQuitSavesAndShutsDown(t *testing.T) {
	store := config.NewStore(config.Defaults())
	var saves atomic.Int32
	_, ctl := startServer(t, store, func() { saves.Add(1) })

	if err := ctl.Send(protocol.Quit{}); err != nil {
		t.Fatalf("quit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ctl.Running() {
		if time.Now().After(deadline) {
			t.Fatalf("socket still accepting after Quit")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if saves.Load() == 0 {
		t.Fatalf("quit must persist state first")
	}
}

func TestFailedStartReleasesLock(t *testing.T) {
	store := config.NewStore(config.Defaults())
	// sockaddr_un caps socket paths near 108 bytes; this one cannot bind.
	path := filepath.Join(t.TempDir(), strings.Repeat("x", 200)+".sock")

	first := NewServer(path, store, nil)
	if err := first.Start(); err == nil {
		first.Close()
		t.Fatalf("bind on an oversized path must fail")
	}
	if first.lockFile != nil {
		t.Fatalf("failed start must release the lock")
	}

	second := NewServer(path, store, nil)
	if err := second.acquireLock(); err != nil {
		t.Fatalf("lock still held after failed start: %v", err)
	}
	second.releaseLock()
}

func TestSecondInstanceFailsFast(t *testing.T) {
	store := config.NewStore(config.Defaults())
	srv, _ := startServer(t, store, nil)

	second := NewServer(srv.path, store, nil)
	if err := second.Start(); err == nil {
		second.Close()
		t.Fatalf("second instance must not start")
	}
}
