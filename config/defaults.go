// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the configuration file.

package config

// Defaults returns the built-in configuration: a full-opacity white ring,
// 80px thick with an 80px glow, no animation, tuned for a 35px top bar.
func Defaults() File {
	return File{
		Color:          "ffffff",
		Thickness:      80,
		Opacity:        1.0,
		Glow:           80,
		CornerRadius:   2.5,
		Animation:      "none",
		AnimationSpeed: 120,
		BarHeight:      35,
		BarPosition:    "top",
	}
}
