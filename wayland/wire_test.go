// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wayland

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestHeaderPacksSizeAndOpcode(t *testing.T) {
	h := header(7, 3, 20)
	if got := binary.LittleEndian.Uint32(h[0:4]); got != 7 {
		t.Fatalf("object id: got %d", got)
	}
	word := binary.LittleEndian.Uint32(h[4:8])
	if word>>16 != 20 {
		t.Fatalf("size: got %d", word>>16)
	}
	if word&0xffff != 3 {
		t.Fatalf("opcode: got %d", word&0xffff)
	}
}

func TestMarshalScalars(t *testing.T) {
	buf, err := marshal(nil, uint32(0xdeadbeef), int32(-1), nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := []byte{
		0xef, 0xbe, 0xad, 0xde,
		0xff, 0xff, 0xff, 0xff,
		0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got % x, want % x", buf, want)
	}
}

func TestMarshalStringPadding(t *testing.T) {
	// "abc" plus NUL is 4 bytes: length word 4, no extra padding.
	buf, err := marshal(nil, "abc")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(buf) != 8 {
		t.Fatalf("aligned length: got %d", len(buf))
	}

	// "wl_shm" plus NUL is 7 bytes: padded up to 8.
	buf, err = marshal(nil, "wl_shm")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf[0:4]); got != 7 {
		t.Fatalf("declared length: got %d", got)
	}
	if len(buf) != 12 {
		t.Fatalf("aligned length: got %d", len(buf))
	}
	if buf[4+6] != 0 || buf[4+7] != 0 {
		t.Fatalf("NUL and padding missing: % x", buf)
	}
}

func TestMarshalRejectsUnknownKind(t *testing.T) {
	if _, err := marshal(nil, 3.14); err == nil {
		t.Fatalf("expected error for unsupported argument type")
	}
}

func TestReaderRoundTrip(t *testing.T) {
	buf, err := marshal(nil, uint32(42), int32(-7), "DP-1", uint32(99))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	r := &reader{data: buf}
	if got := r.uint32(); got != 42 {
		t.Fatalf("uint32: got %d", got)
	}
	if got := r.int32(); got != -7 {
		t.Fatalf("int32: got %d", got)
	}
	if got := r.string(); got != "DP-1" {
		t.Fatalf("string: got %q", got)
	}
	if got := r.uint32(); got != 99 {
		t.Fatalf("trailing uint32: got %d", got)
	}
	if r.err != nil {
		t.Fatalf("reader error: %v", r.err)
	}
}

func TestReaderShortBody(t *testing.T) {
	r := &reader{data: []byte{1, 2}}
	if got := r.uint32(); got != 0 {
		t.Fatalf("short read must yield zero, got %d", got)
	}
	if r.err == nil {
		t.Fatalf("short read must set the error")
	}
}

func TestReaderTruncatedString(t *testing.T) {
	// Declares 16 bytes of string but carries only 4.
	buf := binary.LittleEndian.AppendUint32(nil, 16)
	buf = append(buf, 'D', 'P', '-', 0)
	r := &reader{data: buf}
	if got := r.string(); got != "" {
		t.Fatalf("truncated string must yield empty, got %q", got)
	}
	if r.err == nil {
		t.Fatalf("truncated string must set the error")
	}
}
