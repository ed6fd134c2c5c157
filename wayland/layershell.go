// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wayland/layershell.go
// Summary: zwlr_layer_shell_v1 wrappers for overlay surfaces.

package wayland

// Layer values from the wlr-layer-shell protocol.
const (
	LayerBackground uint32 = 0
	LayerBottom     uint32 = 1
	LayerTop        uint32 = 2
	LayerOverlay    uint32 = 3
)

// Anchor bits; combine to pin a surface to multiple edges.
const (
	AnchorTop    uint32 = 1
	AnchorBottom uint32 = 2
	AnchorLeft   uint32 = 4
	AnchorRight  uint32 = 8
	AnchorAll           = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

// KeyboardInteractivityNone: the surface never takes keyboard focus.
const KeyboardInteractivityNone uint32 = 0

// LayerShell is the zwlr_layer_shell_v1 global.
type LayerShell struct {
	conn *Conn
	id   uint32
}

// LayerShellInterface is the name the registry announces for the
// layer-shell global.
const LayerShellInterface = "zwlr_layer_shell_v1"

// BindLayerShell binds the layer-shell global.
func BindLayerShell(c *Conn, name, version uint32) (*LayerShell, error) {
	ls := &LayerShell{conn: c}
	id, err := c.registry.bind(name, LayerShellInterface, min(version, 4), ls)
	if err != nil {
		return nil, err
	}
	ls.id = id
	return ls, nil
}

func (ls *LayerShell) dispatch(uint16, *reader) {}

// GetLayerSurface wraps a wl_surface into a layer surface pinned to the
// given output.
func (ls *LayerShell) GetLayerSurface(s *Surface, output *Output, layer uint32, namespace string) (*LayerSurface, error) {
	l := &LayerSurface{conn: ls.conn, id: ls.conn.newID(), surface: s}
	ls.conn.objects[l.id] = l
	var outputArg any
	if output != nil {
		outputArg = output.id
	}
	if err := ls.conn.send(ls.id, 0, l.id, s.id, outputArg, layer, namespace); err != nil {
		delete(ls.conn.objects, l.id)
		return nil, err
	}
	return l, nil
}

// LayerSurface is a zwlr_layer_surface_v1. Configure events are
// acknowledged automatically before OnConfigure runs.
type LayerSurface struct {
	conn    *Conn
	id      uint32
	surface *Surface

	// OnConfigure delivers the size granted by the compositor.
	OnConfigure func(width, height uint32)
	// OnClosed fires when the compositor discards the surface.
	OnClosed func()
}

func (l *LayerSurface) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0: // configure
		serial := r.uint32()
		w := r.uint32()
		h := r.uint32()
		l.ack(serial)
		if l.OnConfigure != nil {
			l.OnConfigure(w, h)
		}
	case 1: // closed
		if l.OnClosed != nil {
			l.OnClosed()
		}
	}
}

// Surface returns the underlying wl_surface.
func (l *LayerSurface) Surface() *Surface { return l.surface }

// SetAnchor pins the surface to the given edges.
func (l *LayerSurface) SetAnchor(anchor uint32) error {
	return l.conn.send(l.id, 1, anchor)
}

// SetExclusiveZone of -1 means the surface ignores other exclusive zones
// and reserves none itself.
func (l *LayerSurface) SetExclusiveZone(zone int32) error {
	return l.conn.send(l.id, 2, zone)
}

// SetMargin sets per-edge margins (top, right, bottom, left).
func (l *LayerSurface) SetMargin(top, right, bottom, left int32) error {
	return l.conn.send(l.id, 3, top, right, bottom, left)
}

// SetKeyboardInteractivity controls keyboard focus behaviour.
func (l *LayerSurface) SetKeyboardInteractivity(mode uint32) error {
	return l.conn.send(l.id, 4, mode)
}

func (l *LayerSurface) ack(serial uint32) {
	l.conn.send(l.id, 6, serial)
}

// Destroy removes the layer surface role.
func (l *LayerSurface) Destroy() error {
	delete(l.conn.objects, l.id)
	return l.conn.send(l.id, 7)
}
