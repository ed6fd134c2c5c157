// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for the config file and the control socket.

package config

import (
	"os"
	"path/filepath"
)

// FilePath resolves the durable config file location.
func FilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ringlight", "config.toml"), nil
}

// SocketPath resolves the control-channel endpoint under the runtime
// directory, falling back to /tmp when XDG_RUNTIME_DIR is unset.
func SocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = "/tmp"
	}
	return filepath.Join(dir, "ringlight.sock")
}
