// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wayland/conn.go
// Summary: Wayland display connection, object table and event dispatch.
// Notes: The connection is owned by a single thread: the presentation
// event-dispatch loop. Nothing here is safe for concurrent use.

package wayland

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// object is anything that receives events for a protocol id.
type object interface {
	dispatch(opcode uint16, r *reader)
}

// Conn is a connection to the Wayland compositor. Object id 1 is the
// wl_display itself, handled inline.
type Conn struct {
	sock    *net.UnixConn
	nextID  uint32
	freeIDs []uint32
	objects map[uint32]object

	registry *Registry
	fatal    error

	hdr  [headerSize]byte
	body [1 << 16]byte
}

// Connect dials the compositor socket named by WAYLAND_DISPLAY under
// XDG_RUNTIME_DIR.
func Connect() (*Conn, error) {
	name := os.Getenv("WAYLAND_DISPLAY")
	if name == "" {
		name = "wayland-0"
	}
	path := name
	if !filepath.IsAbs(path) {
		runDir := os.Getenv("XDG_RUNTIME_DIR")
		if runDir == "" {
			return nil, errors.New("wayland: XDG_RUNTIME_DIR not set")
		}
		path = filepath.Join(runDir, name)
	}

	raw, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("wayland: connect %s: %w", path, err)
	}

	c := &Conn{
		sock:    raw.(*net.UnixConn),
		nextID:  2, // id 1 is the display
		objects: make(map[uint32]object),
	}

	c.registry = &Registry{conn: c, id: c.newID()}
	c.objects[c.registry.id] = c.registry
	// wl_display.get_registry
	if err := c.send(1, 1, c.registry.id); err != nil {
		raw.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) Close() error {
	return c.sock.Close()
}

// Registry returns the global registry obtained at connect time.
func (c *Conn) Registry() *Registry {
	return c.registry
}

// newID prefers ids returned by wl_display.delete_id over fresh ones. The
// frame loop allocates one wl_callback per frame per surface, so without
// recycling the id space would run out within days.
func (c *Conn) newID() uint32 {
	if n := len(c.freeIDs); n > 0 {
		id := c.freeIDs[n-1]
		c.freeIDs = c.freeIDs[:n-1]
		return id
	}
	id := c.nextID
	c.nextID++
	return id
}

// send writes one request. Requests are only ever issued from the dispatch
// thread, so no locking is needed.
func (c *Conn) send(id uint32, opcode uint16, args ...any) error {
	return c.sendFD(id, opcode, -1, args...)
}

// sendFD writes one request with an optional file descriptor attached as
// SCM_RIGHTS ancillary data.
func (c *Conn) sendFD(id uint32, opcode uint16, fd int, args ...any) error {
	body, err := marshal(nil, args...)
	if err != nil {
		return err
	}
	size := headerSize + len(body)
	if size > 0xffff {
		return fmt.Errorf("wayland: request too large: %d bytes", size)
	}
	h := header(id, opcode, size)
	msg := append(h[:], body...)

	if fd >= 0 {
		oob := unix.UnixRights(fd)
		_, _, err = c.sock.WriteMsgUnix(msg, oob, nil)
		return err
	}
	_, err = c.sock.Write(msg)
	return err
}

// Dispatch blocks for one event and routes it. Returns the compositor's
// fatal error if one has been reported.
func (c *Conn) Dispatch() error {
	if c.fatal != nil {
		return c.fatal
	}
	if _, err := io.ReadFull(c.sock, c.hdr[:]); err != nil {
		return fmt.Errorf("wayland: read header: %w", err)
	}
	id := uint32(c.hdr[0]) | uint32(c.hdr[1])<<8 | uint32(c.hdr[2])<<16 | uint32(c.hdr[3])<<24
	word := uint32(c.hdr[4]) | uint32(c.hdr[5])<<8 | uint32(c.hdr[6])<<16 | uint32(c.hdr[7])<<24
	size := int(word >> 16)
	opcode := uint16(word & 0xffff)

	if size < headerSize {
		return errShortMessage
	}
	body := c.body[:size-headerSize]
	if len(body) > 0 {
		if _, err := io.ReadFull(c.sock, body); err != nil {
			return fmt.Errorf("wayland: read body: %w", err)
		}
	}

	r := &reader{data: body}
	if id == 1 {
		c.displayEvent(opcode, r)
		return c.fatal
	}
	if obj, ok := c.objects[id]; ok {
		obj.dispatch(opcode, r)
	}
	// Events for ids we no longer track are stale and dropped.
	return c.fatal
}

// displayEvent handles wl_display events: error(0) and delete_id(1).
func (c *Conn) displayEvent(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		objID := r.uint32()
		code := r.uint32()
		msg := r.string()
		c.fatal = fmt.Errorf("wayland: protocol error on object %d code %d: %s", objID, code, msg)
	case 1:
		id := r.uint32()
		delete(c.objects, id)
		c.freeIDs = append(c.freeIDs, id)
	}
}

// callback is a wl_callback waiting for its done event.
type callback struct {
	done func(serial uint32)
}

func (cb *callback) dispatch(opcode uint16, r *reader) {
	if opcode == 0 && cb.done != nil {
		cb.done(r.uint32())
	}
}

// Roundtrip issues wl_display.sync and dispatches until the compositor has
// processed every prior request.
func (c *Conn) Roundtrip() error {
	id := c.newID()
	finished := false
	c.objects[id] = &callback{done: func(uint32) { finished = true }}
	if err := c.send(1, 0, id); err != nil {
		return err
	}
	for !finished {
		if err := c.Dispatch(); err != nil {
			return err
		}
	}
	return nil
}

// Registry is the wl_registry global listing.
type Registry struct {
	conn *Conn
	id   uint32

	// OnGlobal and OnGlobalRemove fire as the compositor announces and
	// withdraws globals.
	OnGlobal       func(name uint32, iface string, version uint32)
	OnGlobalRemove func(name uint32)
}

func (reg *Registry) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		name := r.uint32()
		iface := r.string()
		version := r.uint32()
		if r.err == nil && reg.OnGlobal != nil {
			reg.OnGlobal(name, iface, version)
		}
	case 1:
		name := r.uint32()
		if reg.OnGlobalRemove != nil {
			reg.OnGlobalRemove(name)
		}
	}
}

// bind allocates a fresh id and binds it to the named global.
func (reg *Registry) bind(name uint32, iface string, version uint32, obj object) (uint32, error) {
	id := reg.conn.newID()
	reg.conn.objects[id] = obj
	// wl_registry.bind carries a fully qualified new_id: interface, version, id.
	if err := reg.conn.send(reg.id, 0, name, iface, version, id); err != nil {
		delete(reg.conn.objects, id)
		return 0, err
	}
	return id, nil
}
