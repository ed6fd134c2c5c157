// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/sdf.go
// Summary: Signed-distance field for the inset rounded rectangle and the
// glow falloff derived from it.

package render

import "math"

// farOutside is returned when the inset leaves no interior rectangle; every
// pixel then sits deep in the "fully lit" zone.
const farOutside = 100.0

// InsetBorderDistance is the signed distance from pixel (x, y) to the
// boundary of the rectangle inset by `inset` from every surface edge, with
// rounded corners of radius `cornerRadius`. Negative inside the rounded
// rectangle (the transparent hole), zero on the boundary, positive toward
// the surface edges. Standard rounded-box SDF.
func InsetBorderDistance(x, y, w, h, inset, cornerRadius float64) float64 {
	left := inset
	right := w - inset
	top := inset
	bottom := h - inset

	if right <= left || bottom <= top {
		return farOutside
	}

	halfW := (right - left) / 2
	halfH := (bottom - top) / 2
	r := math.Max(0, math.Min(cornerRadius, math.Min(halfW, halfH)))

	cx := (left + right) / 2
	cy := (top + bottom) / 2
	px := math.Abs(x - cx)
	py := math.Abs(y - cy)

	qx := px - (halfW - r)
	qy := py - (halfH - r)

	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - r
}

// GlowAlpha maps a signed distance to pixel opacity. Zero at or inside the
// boundary, the full effective opacity beyond the glow band, and a cubic
// ease in between. Continuous at dist == glow: (glow/glow)³ == 1.
func GlowAlpha(dist, glow, opacity float64) float64 {
	if dist <= 0 {
		return 0
	}
	if dist > glow {
		return opacity
	}
	p := dist / glow
	return opacity * p * p * p
}
