// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wayland/surface.go
// Summary: wl_compositor, wl_surface and wl_region wrappers.

package wayland

// Compositor is the wl_compositor global.
type Compositor struct {
	conn *Conn
	id   uint32
}

// BindCompositor binds wl_compositor from the registry.
func BindCompositor(c *Conn, name, version uint32) (*Compositor, error) {
	comp := &Compositor{conn: c}
	id, err := c.registry.bind(name, "wl_compositor", min(version, 4), comp)
	if err != nil {
		return nil, err
	}
	comp.id = id
	return comp, nil
}

func (comp *Compositor) dispatch(uint16, *reader) {}

// CreateSurface allocates a new wl_surface.
func (comp *Compositor) CreateSurface() (*Surface, error) {
	s := &Surface{conn: comp.conn, id: comp.conn.newID()}
	comp.conn.objects[s.id] = s
	if err := comp.conn.send(comp.id, 0, s.id); err != nil {
		delete(comp.conn.objects, s.id)
		return nil, err
	}
	return s, nil
}

// CreateRegion allocates a new wl_region. An empty region doubles as a
// click-through input region.
func (comp *Compositor) CreateRegion() (*Region, error) {
	r := &Region{conn: comp.conn, id: comp.conn.newID()}
	comp.conn.objects[r.id] = r
	if err := comp.conn.send(comp.id, 1, r.id); err != nil {
		delete(comp.conn.objects, r.id)
		return nil, err
	}
	return r, nil
}

// Surface is a wl_surface.
type Surface struct {
	conn *Conn
	id   uint32
}

// ID exposes the protocol id; the surface manager keys its per-display
// state on it.
func (s *Surface) ID() uint32 { return s.id }

func (s *Surface) dispatch(uint16, *reader) {
	// enter/leave are irrelevant: each surface is pinned to one output.
}

// Attach sets the pending buffer.
func (s *Surface) Attach(b *Buffer) error {
	return s.conn.send(s.id, 1, b.id, int32(0), int32(0))
}

// DamageBuffer marks the given buffer-coordinate rectangle as damaged.
func (s *Surface) DamageBuffer(x, y, w, h int32) error {
	return s.conn.send(s.id, 9, x, y, w, h)
}

// Frame registers interest in the next "ready for a frame" signal.
func (s *Surface) Frame(done func()) error {
	id := s.conn.newID()
	cb := &callback{done: func(uint32) {
		delete(s.conn.objects, id)
		done()
	}}
	s.conn.objects[id] = cb
	if err := s.conn.send(s.id, 3, id); err != nil {
		delete(s.conn.objects, id)
		return err
	}
	return nil
}

// SetInputRegion sets the surface input region; nil means empty here since
// the only caller wants click-through.
func (s *Surface) SetInputRegion(r *Region) error {
	if r == nil {
		return s.conn.send(s.id, 5, nil)
	}
	return s.conn.send(s.id, 5, r.id)
}

// Commit applies pending surface state (attach + damage + frame interest)
// atomically.
func (s *Surface) Commit() error {
	return s.conn.send(s.id, 6)
}

// Destroy releases the surface.
func (s *Surface) Destroy() error {
	delete(s.conn.objects, s.id)
	return s.conn.send(s.id, 0)
}

// Region is a wl_region.
type Region struct {
	conn *Conn
	id   uint32
}

func (r *Region) dispatch(uint16, *reader) {}

// Destroy releases the region; the surface keeps the applied copy.
func (r *Region) Destroy() error {
	delete(r.conn.objects, r.id)
	return r.conn.send(r.id, 0)
}
