// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wayland/wire.go
// Summary: Wayland wire codec: 8-byte little-endian headers, 32-bit aligned
// arguments, file descriptors out-of-band via SCM_RIGHTS.

package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const headerSize = 8

var (
	errShortMessage = errors.New("wayland: message body shorter than declared")
	errBadString    = errors.New("wayland: malformed string argument")
)

// marshal appends a request body for the given arguments. Supported kinds:
// uint32, int32, string (NUL-terminated, padded) and nil (null object).
// File descriptors never appear in the body; they travel as ancillary data.
func marshal(buf []byte, args ...any) ([]byte, error) {
	for _, arg := range args {
		switch v := arg.(type) {
		case uint32:
			buf = binary.LittleEndian.AppendUint32(buf, v)
		case int32:
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		case string:
			n := len(v) + 1 // includes NUL
			buf = binary.LittleEndian.AppendUint32(buf, uint32(n))
			buf = append(buf, v...)
			buf = append(buf, 0)
			for len(buf)%4 != 0 {
				buf = append(buf, 0)
			}
		case nil:
			buf = binary.LittleEndian.AppendUint32(buf, 0)
		default:
			return nil, fmt.Errorf("wayland: unsupported argument type %T", arg)
		}
	}
	return buf, nil
}

// header packs the object id and the size<<16|opcode word.
func header(id uint32, opcode uint16, size int) [headerSize]byte {
	var h [headerSize]byte
	binary.LittleEndian.PutUint32(h[0:4], id)
	binary.LittleEndian.PutUint32(h[4:8], uint32(size)<<16|uint32(opcode))
	return h
}

// reader walks an event body.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) uint32() uint32 {
	if r.err != nil || r.off+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) int32() int32 {
	return int32(r.uint32())
}

func (r *reader) string() string {
	n := int(r.uint32())
	if r.err != nil {
		return ""
	}
	if n == 0 {
		return ""
	}
	padded := (n + 3) &^ 3
	if r.off+padded > len(r.data) {
		r.err = errBadString
		return ""
	}
	s := string(r.data[r.off : r.off+n-1]) // strip NUL
	r.off += padded
	return s
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = errShortMessage
	}
}
