// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/animate.go
// Summary: Animation functions mapping (frame, speed, mode) onto the base
// color and opacity.

package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"ringlight/config"
)

// FrameCounter converts wall-clock elapsed seconds into a virtual 60fps
// frame count, so animation speed is stable regardless of how often the
// compositor asks for frames.
func FrameCounter(elapsed float64) uint32 {
	if elapsed < 0 {
		return 0
	}
	return uint32(elapsed * 60.0)
}

// Animate derives the effective color and opacity for a frame.
func Animate(snap config.Snapshot, frame uint32) (r, g, b uint8, opacity float64) {
	r, g, b = snap.ColorR, snap.ColorG, snap.ColorB
	opacity = snap.Opacity

	speed := float64(snap.AnimationSpeed)
	if speed <= 0 {
		speed = 1
	}
	phase := float64(frame) / speed

	switch snap.Animation {
	case config.AnimPulse:
		opacity *= 0.5 + 0.5*math.Sin(2*math.Pi*phase)
	case config.AnimRainbow:
		r, g, b = RainbowColor(Hue(frame, snap.AnimationSpeed))
	case config.AnimBreathe:
		opacity *= math.Max(0.1, math.Abs(math.Sin(math.Pi*phase)))
	}
	return r, g, b, opacity
}

// Hue returns the rainbow hue in [0, 1), periodic in speed frame-units.
func Hue(frame, speed uint32) float64 {
	if speed == 0 {
		speed = 1
	}
	return math.Mod(float64(frame)/float64(speed), 1.0)
}

// RainbowColor converts a hue to fully saturated RGB at 50% lightness.
func RainbowColor(hue float64) (r, g, b uint8) {
	c := colorful.Hsl(hue*360.0, 1.0, 0.5)
	cr, cg, cb := c.Clamped().RGB255()
	return cr, cg, cb
}
