// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wayland/shm.go
// Summary: wl_shm pools backed by sealed memfds, with double-buffered
// fixed-capacity slots reused every frame.

package wayland

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FormatARGB8888 is the 32-bit premultiplied format the ring renders into,
// alpha in the most significant byte.
const FormatARGB8888 uint32 = 0

const slotCount = 2

// Shm is the wl_shm global.
type Shm struct {
	conn *Conn
	id   uint32
}

// BindShm binds wl_shm from the registry.
func BindShm(c *Conn, name, version uint32) (*Shm, error) {
	s := &Shm{conn: c}
	id, err := c.registry.bind(name, "wl_shm", min(version, 1), s)
	if err != nil {
		return nil, err
	}
	s.id = id
	return s, nil
}

func (s *Shm) dispatch(uint16, *reader) {
	// format advertisements: ARGB8888 support is mandated by the protocol.
}

// Pool is a fixed-capacity shared-memory pool split into two slots so a new
// frame can be written while the compositor still reads the previous one.
// No per-frame allocation happens: slots and their wl_buffers are reused
// until the surface is resized.
type Pool struct {
	conn     *Conn
	id       uint32
	fd       int
	data     []byte
	slotSize int
	slots    [slotCount]poolSlot
}

type poolSlot struct {
	buf  *Buffer
	busy bool
	w, h int32
}

// CreatePool maps capacity bytes of anonymous shared memory and registers
// them with the compositor. Capacity bounds the largest supported frame:
// capacity/2 bytes per slot.
func (s *Shm) CreatePool(capacity int) (*Pool, error) {
	fd, err := unix.MemfdCreate("ringlight-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("wayland: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(capacity)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wayland: ftruncate: %w", err)
	}
	data, err := unix.Mmap(fd, 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wayland: mmap: %w", err)
	}

	p := &Pool{
		conn:     s.conn,
		id:       s.conn.newID(),
		fd:       fd,
		data:     data,
		slotSize: capacity / slotCount,
	}
	s.conn.objects[p.id] = p
	if err := s.conn.sendFD(s.id, 0, fd, p.id, int32(capacity)); err != nil {
		delete(s.conn.objects, p.id)
		p.unmap()
		return nil, err
	}
	return p, nil
}

func (p *Pool) dispatch(uint16, *reader) {}

// Acquire returns a buffer and its canvas for a width×height ARGB frame,
// reusing the slot's wl_buffer when the size is unchanged. If both slots
// are still held by the compositor the oldest is reused anyway; the frame
// signal pacing makes that a non-event in practice.
func (p *Pool) Acquire(w, h int32) (*Buffer, []byte, error) {
	need := int(w) * int(h) * 4
	if need > p.slotSize {
		return nil, nil, fmt.Errorf("wayland: frame %dx%d exceeds pool slot (%d bytes)", w, h, p.slotSize)
	}

	idx := 0
	for i := range p.slots {
		if !p.slots[i].busy {
			idx = i
			break
		}
	}
	slot := &p.slots[idx]

	if slot.buf == nil || slot.w != w || slot.h != h {
		if slot.buf != nil {
			slot.buf.Destroy()
		}
		buf, err := p.createBuffer(idx, w, h)
		if err != nil {
			return nil, nil, err
		}
		slot.buf = buf
		slot.w, slot.h = w, h
	}
	slot.busy = true

	offset := idx * p.slotSize
	return slot.buf, p.data[offset : offset+need], nil
}

func (p *Pool) createBuffer(idx int, w, h int32) (*Buffer, error) {
	b := &Buffer{conn: p.conn, id: p.conn.newID(), pool: p, slot: idx}
	p.conn.objects[b.id] = b
	stride := w * 4
	if err := p.conn.send(p.id, 0, b.id, int32(idx*p.slotSize), w, h, stride, FormatARGB8888); err != nil {
		delete(p.conn.objects, b.id)
		return nil, err
	}
	return b, nil
}

// Destroy tears the pool down with its buffers and mapping.
func (p *Pool) Destroy() {
	for i := range p.slots {
		if p.slots[i].buf != nil {
			p.slots[i].buf.Destroy()
			p.slots[i].buf = nil
		}
	}
	p.conn.send(p.id, 1)
	delete(p.conn.objects, p.id)
	p.unmap()
}

func (p *Pool) unmap() {
	if p.data != nil {
		unix.Munmap(p.data)
		p.data = nil
	}
	if p.fd >= 0 {
		unix.Close(p.fd)
		p.fd = -1
	}
}

// Buffer is a wl_buffer carved out of a pool slot.
type Buffer struct {
	conn *Conn
	id   uint32
	pool *Pool
	slot int
}

func (b *Buffer) dispatch(opcode uint16, _ *reader) {
	if opcode == 0 { // release: the compositor is done reading the slot
		b.pool.slots[b.slot].busy = false
	}
}

// Destroy releases the buffer object.
func (b *Buffer) Destroy() error {
	delete(b.conn.objects, b.id)
	return b.conn.send(b.id, 0)
}
