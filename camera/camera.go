// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: camera/camera.go
// Summary: Webcam-activity watcher. When a video device goes busy while the
// ring is hidden, a desktop notification suggests turning it on.

package camera

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"ringlight/config"
)

const pollInterval = 5 * time.Second

// inUse reports whether any /dev/video* node has an open handle. fuser
// prints holders on stdout and exits zero when the device is busy.
func inUse() bool {
	entries, err := os.ReadDir("/dev")
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "video") {
			continue
		}
		dev := filepath.Join("/dev", e.Name())
		out, err := exec.Command("fuser", dev).Output()
		if err == nil || len(out) > 0 {
			return true
		}
	}
	return false
}

// notify raises a low-urgency desktop notification over the session bus.
// Failure is ignorable: a missing notification daemon must never affect
// rendering.
func notify() {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.Printf("camera: session bus unavailable: %v", err)
		return
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"ringlight",
		uint32(0), // no notification to replace
		"camera-web",
		"Camera Active",
		"Your webcam is now active. Consider enabling the ring light for better lighting!",
		[]string{}, // no actions
		map[string]dbus.Variant{
			"urgency":  dbus.MakeVariant(byte(0)),
			"category": dbus.MakeVariant("device"),
		},
		int32(10000), // expire timeout in ms
	)
	if call.Err != nil {
		log.Printf("camera: notification failed: %v", call.Err)
	}
}

// Watch polls camera activity at a low frequency, mirroring the ring's
// visibility each pass. Notifies once per activation, only while the ring
// is hidden. Never joined; runs until process exit.
func Watch(store *config.Store) {
	go func() {
		wasInUse := false
		for {
			nowInUse := inUse()
			if nowInUse && !wasInUse && !store.Visible() {
				notify()
			}
			wasInUse = nowInUse
			time.Sleep(pollInterval)
		}
	}()
}
