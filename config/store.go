// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Lock-free shared store for the appearance configuration.
// Notes: Readers and writers are wait-free per field. There is deliberately
// no cross-field transaction: Snapshot may observe a mix of pre- and
// post-mutation values while a writer is active.

package config

import (
	"math"
	"sync/atomic"
)

// milliScale is the fixed-point scale used to store real-valued fields in
// uint32 atomics. Writes round to the nearest millistep. The encoding never
// leaves this file; every accessor exposes true float64 values.
const milliScale = 1000

// milli converts a non-negative real to its fixed-point encoding. Values
// past the uint32 ceiling saturate; the bare conversion would be
// implementation-defined for them.
func milli(v float64) uint32 {
	f := v*milliScale + 0.5
	if f >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(f)
}

// Store holds the live appearance configuration plus the per-display enable
// registry. It is the only object in the process shared between threads.
type Store struct {
	colorR    atomic.Uint32
	colorG    atomic.Uint32
	colorB    atomic.Uint32
	thickness atomic.Uint32
	opacityMi atomic.Uint32 // opacity × 1000
	glow      atomic.Uint32
	cornerMi  atomic.Uint32 // corner-radius ratio × 1000
	animMode  atomic.Uint32
	animSpeed atomic.Uint32
	visible   atomic.Bool

	registry registry
}

// NewStore builds a store seeded from the startup file snapshot. Monitors
// listed as disabled start with their enabled flag off when first seen.
func NewStore(f File) *Store {
	s := &Store{}
	r, g, b := ParseHexColor(f.Color)
	s.SetColor(r, g, b)
	s.SetThickness(f.Thickness)
	s.SetOpacity(f.Opacity)
	s.SetGlow(f.Glow)
	s.SetCornerRadius(f.CornerRadius)
	s.SetAnimation(ParseAnimation(f.Animation))
	s.SetAnimationSpeed(f.AnimationSpeed)
	s.SetVisible(true)
	s.registry.seedDisabled(f.DisabledMonitors)
	return s
}

func (s *Store) Color() (r, g, b uint8) {
	return uint8(s.colorR.Load()), uint8(s.colorG.Load()), uint8(s.colorB.Load())
}

func (s *Store) SetColor(r, g, b uint8) {
	s.colorR.Store(uint32(r))
	s.colorG.Store(uint32(g))
	s.colorB.Store(uint32(b))
}

func (s *Store) Thickness() uint32     { return s.thickness.Load() }
func (s *Store) SetThickness(v uint32) { s.thickness.Store(v) }

func (s *Store) Opacity() float64 {
	return float64(s.opacityMi.Load()) / milliScale
}

// SetOpacity clamps to [0, 1] at the mutation boundary.
func (s *Store) SetOpacity(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	s.opacityMi.Store(milli(v))
}

func (s *Store) Glow() uint32     { return s.glow.Load() }
func (s *Store) SetGlow(v uint32) { s.glow.Store(v) }

func (s *Store) CornerRadius() float64 {
	return float64(s.cornerMi.Load()) / milliScale
}

// SetCornerRadius clamps negatives to zero; the upper bound is applied at
// render time where the surface dimensions are known.
func (s *Store) SetCornerRadius(v float64) {
	if v < 0 {
		v = 0
	}
	s.cornerMi.Store(milli(v))
}

func (s *Store) Animation() AnimationMode {
	return animationFromRaw(s.animMode.Load())
}

func (s *Store) SetAnimation(m AnimationMode) { s.animMode.Store(uint32(m)) }

func (s *Store) AnimationSpeed() uint32     { return s.animSpeed.Load() }
func (s *Store) SetAnimationSpeed(v uint32) { s.animSpeed.Store(v) }

func (s *Store) Visible() bool     { return s.visible.Load() }
func (s *Store) SetVisible(v bool) { s.visible.Store(v) }

// Snapshot reads every field independently. With no concurrent writer the
// result is exact; with one it is field-level consistent only.
func (s *Store) Snapshot() Snapshot {
	r, g, b := s.Color()
	return Snapshot{
		ColorR:         r,
		ColorG:         g,
		ColorB:         b,
		Thickness:      s.Thickness(),
		Opacity:        s.Opacity(),
		Glow:           s.Glow(),
		CornerRadius:   s.CornerRadius(),
		Animation:      s.Animation(),
		AnimationSpeed: s.AnimationSpeed(),
		Visible:        s.Visible(),
	}
}

// Registry accessors; see registry.go.

func (s *Store) Upsert(id, displayName string) { s.registry.upsert(id, displayName) }
func (s *Store) Remove(id string)              { s.registry.remove(id) }
func (s *Store) Toggle(id string)              { s.registry.toggle(id) }
func (s *Store) SetEnabled(id string, on bool) { s.registry.setEnabled(id, on) }
func (s *Store) Enabled(id string) bool        { return s.registry.enabled(id) }
func (s *Store) Monitors() []Monitor           { return s.registry.list() }
func (s *Store) DisabledMonitors() []string    { return s.registry.disabled() }
