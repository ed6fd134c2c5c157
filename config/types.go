// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Core value types shared by the store, the wire protocol and the renderer.

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// AnimationMode selects the per-frame animation applied to the ring.
type AnimationMode uint8

const (
	AnimNone AnimationMode = iota
	AnimPulse
	AnimRainbow
	AnimBreathe
)

// ParseAnimation maps a user-facing name to a mode. Unknown names map to
// AnimNone so stale or malformed input can never produce an out-of-range mode.
func ParseAnimation(s string) AnimationMode {
	switch strings.ToLower(s) {
	case "pulse":
		return AnimPulse
	case "rainbow":
		return AnimRainbow
	case "breathe":
		return AnimBreathe
	default:
		return AnimNone
	}
}

func (m AnimationMode) String() string {
	switch m {
	case AnimPulse:
		return "pulse"
	case AnimRainbow:
		return "rainbow"
	case AnimBreathe:
		return "breathe"
	default:
		return "none"
	}
}

// animationFromRaw converts the store's integer encoding back to a mode.
// Unknown encodings decode to AnimNone.
func animationFromRaw(v uint32) AnimationMode {
	if v > uint32(AnimBreathe) {
		return AnimNone
	}
	return AnimationMode(v)
}

// BarPosition names the screen edge occupied by a status bar. The overlay
// leaves a margin on exactly that edge.
type BarPosition uint8

const (
	BarTop BarPosition = iota
	BarBottom
	BarLeft
	BarRight
)

// ParseBarPosition maps a config-file value to a position, defaulting to top.
func ParseBarPosition(s string) BarPosition {
	switch strings.ToLower(s) {
	case "bottom":
		return BarBottom
	case "left":
		return BarLeft
	case "right":
		return BarRight
	default:
		return BarTop
	}
}

func (p BarPosition) String() string {
	switch p {
	case BarBottom:
		return "bottom"
	case BarLeft:
		return "left"
	case BarRight:
		return "right"
	default:
		return "top"
	}
}

// ParseHexColor parses a 6-digit hex color, tolerating a leading '#' and
// trailing garbage. Invalid channels fall back to white, matching the
// behaviour external tools already rely on.
func ParseHexColor(hex string) (r, g, b uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) < 6 {
		return 255, 255, 255
	}
	parse := func(s string) uint8 {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 255
		}
		return uint8(v)
	}
	return parse(hex[0:2]), parse(hex[2:4]), parse(hex[4:6])
}

// HexColor renders a color as 6 lowercase hex digits without a marker.
func HexColor(r, g, b uint8) string {
	return fmt.Sprintf("%02x%02x%02x", r, g, b)
}

// Snapshot is a field-by-field view of the appearance configuration. It is
// assembled by independent atomic reads, so a concurrent writer may be
// visible in some fields and not others; see Store.Snapshot.
type Snapshot struct {
	ColorR, ColorG, ColorB uint8
	Thickness              uint32
	Opacity                float64
	Glow                   uint32
	CornerRadius           float64
	Animation              AnimationMode
	AnimationSpeed         uint32
	Visible                bool
}

// Monitor describes one registry entry: the stable connector id, the
// cosmetic display name and the enabled flag.
type Monitor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Enabled     bool   `json:"enabled"`
}
