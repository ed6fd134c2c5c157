// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/compositor.go
// Summary: Per-frame pixel compositing into a premultiplied ARGB8888 buffer.
// Notes: Pure functions over a caller-provided slice; the surface manager
// owns buffers and pacing.

package render

import (
	"encoding/binary"

	"ringlight/config"
)

// Compose fills a width×height ARGB8888 canvas (stride = 4×width) with one
// ring frame. When visible is false the canvas is fully cleared instead,
// which flushes any stale ring off screen. Elapsed is wall-clock seconds
// since process start.
func Compose(canvas []byte, width, height int, snap config.Snapshot, elapsed float64, visible bool) {
	if width <= 0 || height <= 0 {
		return
	}
	if !visible || !snap.Visible {
		Clear(canvas, width, height)
		return
	}

	frame := FrameCounter(elapsed)
	r, g, b, opacity := Animate(snap, frame)

	thickness := float64(snap.Thickness)
	glow := float64(snap.Glow)
	inset := thickness + glow
	cornerRadius := thickness * snap.CornerRadius

	w := float64(width)
	h := float64(height)

	for y := 0; y < height; y++ {
		row := canvas[y*width*4:]
		fy := float64(y)
		for x := 0; x < width; x++ {
			dist := InsetBorderDistance(float64(x), fy, w, h, inset, cornerRadius)
			alpha := GlowAlpha(dist, glow, opacity)
			px := row[x*4 : x*4+4 : x*4+4]
			if alpha <= 0.001 {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				continue
			}
			binary.LittleEndian.PutUint32(px, packPremultiplied(r, g, b, alpha))
		}
	}
}

// Clear zeroes the canvas so the compositor shows full transparency.
func Clear(canvas []byte, width, height int) {
	n := width * height * 4
	if n > len(canvas) {
		n = len(canvas)
	}
	clear(canvas[:n])
}

// packPremultiplied builds an ARGB8888 pixel with each channel pre-scaled
// by the alpha fraction, alpha in the most significant byte.
func packPremultiplied(r, g, b uint8, alpha float64) uint32 {
	a := uint32(alpha * 255.0)
	pr := uint32(r) * a / 255
	pg := uint32(g) * a / 255
	pb := uint32(b) * a / 255
	return a<<24 | pr<<16 | pg<<8 | pb
}
