// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/registry.go
// Summary: Per-display enable registry keyed by connector id.

package config

import (
	"sort"
	"sync"
	"sync/atomic"
)

// monitorEntry is the live registry record for one connected display. The
// display name may change (compositors occasionally re-announce outputs with
// richer metadata) without touching identity or the enabled flag.
type monitorEntry struct {
	id      string
	name    atomic.Pointer[string]
	enabled atomic.Bool
}

// registry tracks connected displays. Lookups are wait-free; entries come
// and go only as physical outputs connect and disconnect.
type registry struct {
	entries sync.Map // connector id -> *monitorEntry

	seedMu  sync.Mutex
	seedOff map[string]struct{} // ids persisted as disabled, consumed on first sight
}

func (r *registry) seedDisabled(ids []string) {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()
	if r.seedOff == nil {
		r.seedOff = make(map[string]struct{})
	}
	for _, id := range ids {
		r.seedOff[id] = struct{}{}
	}
}

// firstSightEnabled consumes the persisted preference for id: the live
// entry's flag is the source of truth while the display stays connected.
func (r *registry) firstSightEnabled(id string) bool {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()
	_, off := r.seedOff[id]
	delete(r.seedOff, id)
	return !off
}

// upsert creates the entry if absent (enabled defaulting to true unless the
// id was persisted as disabled) or refreshes the display name if present,
// leaving the enabled flag untouched.
func (r *registry) upsert(id, displayName string) {
	e := &monitorEntry{id: id}
	e.name.Store(&displayName)
	if actual, loaded := r.entries.LoadOrStore(id, e); loaded {
		actual.(*monitorEntry).name.Store(&displayName)
		return
	}
	e.enabled.Store(r.firstSightEnabled(id))
}

// remove drops the live entry. A disabled flag is parked back in the seed
// set so the preference survives until the display reconnects or the next
// file save records it.
func (r *registry) remove(id string) {
	v, ok := r.entries.LoadAndDelete(id)
	if !ok {
		return
	}
	if !v.(*monitorEntry).enabled.Load() {
		r.seedMu.Lock()
		if r.seedOff == nil {
			r.seedOff = make(map[string]struct{})
		}
		r.seedOff[id] = struct{}{}
		r.seedMu.Unlock()
	}
}

func (r *registry) toggle(id string) {
	if v, ok := r.entries.Load(id); ok {
		e := v.(*monitorEntry)
		e.enabled.Store(!e.enabled.Load())
	}
}

func (r *registry) setEnabled(id string, on bool) {
	if v, ok := r.entries.Load(id); ok {
		v.(*monitorEntry).enabled.Store(on)
	}
}

// enabled is fail-open: an id the registry has never seen reports true so a
// display racing its own registration still gets drawn.
func (r *registry) enabled(id string) bool {
	v, ok := r.entries.Load(id)
	if !ok {
		return true
	}
	return v.(*monitorEntry).enabled.Load()
}

// list returns a point-in-time snapshot. Order carries no meaning; it is
// sorted by id only so repeated queries are stable for callers that diff.
func (r *registry) list() []Monitor {
	var out []Monitor
	r.entries.Range(func(_, v any) bool {
		e := v.(*monitorEntry)
		out = append(out, Monitor{
			ID:          e.id,
			DisplayName: *e.name.Load(),
			Enabled:     e.enabled.Load(),
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// disabled reports ids currently toggled off, merged with persisted ids for
// displays that are not connected right now so their preference survives.
func (r *registry) disabled() []string {
	seen := make(map[string]struct{})
	var out []string
	r.entries.Range(func(_, v any) bool {
		e := v.(*monitorEntry)
		seen[e.id] = struct{}{}
		if !e.enabled.Load() {
			out = append(out, e.id)
		}
		return true
	})
	r.seedMu.Lock()
	for id := range r.seedOff {
		if _, connected := seen[id]; !connected {
			out = append(out, id)
		}
	}
	r.seedMu.Unlock()
	sort.Strings(out)
	return out
}
