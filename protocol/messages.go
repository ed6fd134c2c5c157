// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/messages.go
// Summary: Response payloads for GetState and GetMonitors.

package protocol

import (
	"encoding/json"

	"ringlight/config"
)

// State is the full configuration snapshot returned by GetState. Color is
// 6 lowercase hex digits with no leading marker.
type State struct {
	Color          string  `json:"color"`
	Thickness      uint32  `json:"thickness"`
	Opacity        float64 `json:"opacity"`
	Glow           uint32  `json:"glow"`
	CornerRadius   float64 `json:"corner_radius"`
	Animation      string  `json:"animation"`
	AnimationSpeed uint32  `json:"animation_speed"`
	Visible        bool    `json:"visible"`
}

// StateFromSnapshot converts a store snapshot into the wire shape.
func StateFromSnapshot(s config.Snapshot) State {
	return State{
		Color:          config.HexColor(s.ColorR, s.ColorG, s.ColorB),
		Thickness:      s.Thickness,
		Opacity:        s.Opacity,
		Glow:           s.Glow,
		CornerRadius:   s.CornerRadius,
		Animation:      s.Animation.String(),
		AnimationSpeed: s.AnimationSpeed,
		Visible:        s.Visible,
	}
}

// MonitorList is the registry snapshot returned by GetMonitors.
type MonitorList struct {
	Monitors []config.Monitor `json:"monitors"`
}

func EncodeState(s State) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeState(line []byte) (State, error) {
	var s State
	err := json.Unmarshal(line, &s)
	return s, err
}

func EncodeMonitors(m MonitorList) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeMonitors(line []byte) (MonitorList, error) {
	var m MonitorList
	err := json.Unmarshal(line, &m)
	return m, err
}
