// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/protocol.go
// Summary: Control-channel wire format: newline-delimited JSON commands and
// responses in tag+value shape, e.g. {"cmd":"SetColor","value":"ff0000"}.
// Notes: The shape is consumed by external tooling; keep changes
// backward-compatible.

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand = errors.New("protocol: unknown command")
	ErrBadValue       = errors.New("protocol: malformed command value")
)

// Command is the tagged union of every control-channel request.
type Command interface {
	cmdName() string
}

type SetColor struct{ Hex string }
type SetThickness struct{ Pixels uint32 }
type SetOpacity struct{ Opacity float64 }
type SetGlow struct{ Pixels uint32 }
type SetCornerRadius struct{ Ratio float64 }
type SetAnimation struct{ Name string }
type SetAnimationSpeed struct{ FramesPerCycle uint32 }
type SetVisible struct{ Visible bool }

// SetMonitorEnabled toggles one display's enable flag by connector id.
type SetMonitorEnabled struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

type GetState struct{}
type GetMonitors struct{}

// Quit terminates the whole daemon, not just the issuing connection.
type Quit struct{}

func (SetColor) cmdName() string          { return "SetColor" }
func (SetThickness) cmdName() string      { return "SetThickness" }
func (SetOpacity) cmdName() string        { return "SetOpacity" }
func (SetGlow) cmdName() string           { return "SetGlow" }
func (SetCornerRadius) cmdName() string   { return "SetCornerRadius" }
func (SetAnimation) cmdName() string      { return "SetAnimation" }
func (SetAnimationSpeed) cmdName() string { return "SetAnimationSpeed" }
func (SetVisible) cmdName() string        { return "SetVisible" }
func (SetMonitorEnabled) cmdName() string { return "SetMonitorEnabled" }
func (GetState) cmdName() string          { return "GetState" }
func (GetMonitors) cmdName() string       { return "GetMonitors" }
func (Quit) cmdName() string              { return "Quit" }

// envelope is the on-wire shape shared by every command.
type envelope struct {
	Cmd   string          `json:"cmd"`
	Value json.RawMessage `json:"value,omitempty"`
}

// EncodeCommand renders a command as a single JSON line without the
// trailing newline.
func EncodeCommand(c Command) ([]byte, error) {
	env := envelope{Cmd: c.cmdName()}
	var value any
	switch v := c.(type) {
	case SetColor:
		value = v.Hex
	case SetThickness:
		value = v.Pixels
	case SetOpacity:
		value = v.Opacity
	case SetGlow:
		value = v.Pixels
	case SetCornerRadius:
		value = v.Ratio
	case SetAnimation:
		value = v.Name
	case SetAnimationSpeed:
		value = v.FramesPerCycle
	case SetVisible:
		value = v.Visible
	case SetMonitorEnabled:
		value = v
	case GetState, GetMonitors, Quit:
		value = nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, c)
	}
	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		env.Value = raw
	}
	return json.Marshal(env)
}

// DecodeCommand parses one JSON line into a typed command.
func DecodeCommand(line []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	switch env.Cmd {
	case "SetColor":
		var hex string
		if err := json.Unmarshal(env.Value, &hex); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return SetColor{Hex: hex}, nil
	case "SetThickness":
		v, err := decodeU32(env.Value)
		if err != nil {
			return nil, err
		}
		return SetThickness{Pixels: v}, nil
	case "SetOpacity":
		v, err := decodeF64(env.Value)
		if err != nil {
			return nil, err
		}
		return SetOpacity{Opacity: v}, nil
	case "SetGlow":
		v, err := decodeU32(env.Value)
		if err != nil {
			return nil, err
		}
		return SetGlow{Pixels: v}, nil
	case "SetCornerRadius":
		v, err := decodeF64(env.Value)
		if err != nil {
			return nil, err
		}
		return SetCornerRadius{Ratio: v}, nil
	case "SetAnimation":
		var name string
		if err := json.Unmarshal(env.Value, &name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return SetAnimation{Name: name}, nil
	case "SetAnimationSpeed":
		v, err := decodeU32(env.Value)
		if err != nil {
			return nil, err
		}
		return SetAnimationSpeed{FramesPerCycle: v}, nil
	case "SetVisible":
		var b bool
		if err := json.Unmarshal(env.Value, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return SetVisible{Visible: b}, nil
	case "SetMonitorEnabled":
		var v SetMonitorEnabled
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return v, nil
	case "GetState":
		return GetState{}, nil
	case "GetMonitors":
		return GetMonitors{}, nil
	case "Quit":
		return Quit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Cmd)
	}
}

func decodeU32(raw json.RawMessage) (uint32, error) {
	var v uint32
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	return v, nil
}

func decodeF64(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	return v, nil
}
