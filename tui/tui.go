// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/tui.go
// Summary: Interactive terminal configurator with live preview. Changes go
// through the control channel when the daemon runs, otherwise straight to
// the config file on save.

package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"ringlight/client"
	"ringlight/config"
	"ringlight/protocol"
)

// field indexes into the editable rows.
const (
	fieldColor = iota
	fieldThickness
	fieldOpacity
	fieldGlow
	fieldCornerRadius
	fieldAnimation
	fieldAnimationSpeed
	fieldVisible
	fieldCount
)

var colorPresets = []struct {
	name string
	hex  string
}{
	{"White", "ffffff"},
	{"Warm", "ffd9a0"},
	{"Red", "ff0000"},
	{"Green", "00ff00"},
	{"Blue", "0088ff"},
	{"Purple", "aa66ff"},
	{"Pink", "ff66cc"},
}

var animations = []string{"none", "pulse", "rainbow", "breathe"}

// App is the configurator state. It mirrors a File snapshot plus the
// monitor list fetched from the daemon when one is running.
type App struct {
	screen tcell.Screen
	ctl    *client.Client
	live   bool

	file       config.File
	colorIdx   int
	cursor     int
	monitors   []config.Monitor
	statusLine string
}

// Run starts the configurator and blocks until the user quits.
func Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := &App{
		screen: screen,
		ctl:    client.New(config.SocketPath()),
		file:   config.Load(),
	}
	app.live = app.ctl.Running()
	if app.live {
		app.pullState()
		app.refreshMonitors()
		app.statusLine = "live: connected to running daemon"
	} else {
		app.statusLine = "offline: editing config file only"
	}
	app.syncColorIdx()

	for {
		app.draw()
		ev := screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if app.handleKey(e) {
				return app.saveOffline()
			}
		}
	}
}

// pullState replaces the file view with the daemon's live state.
func (a *App) pullState() {
	st, err := a.ctl.State()
	if err != nil {
		return
	}
	a.file.Color = st.Color
	a.file.Thickness = st.Thickness
	a.file.Opacity = st.Opacity
	a.file.Glow = st.Glow
	a.file.CornerRadius = st.CornerRadius
	a.file.Animation = st.Animation
	a.file.AnimationSpeed = st.AnimationSpeed
}

func (a *App) refreshMonitors() {
	monitors, err := a.ctl.Monitors()
	if err == nil {
		a.monitors = monitors
	}
}

func (a *App) syncColorIdx() {
	a.colorIdx = -1
	for i, p := range colorPresets {
		if p.hex == a.file.Color {
			a.colorIdx = i
			break
		}
	}
}

// handleKey returns true when the user is done.
func (a *App) handleKey(e *tcell.EventKey) bool {
	switch {
	case e.Key() == tcell.KeyEscape, e.Rune() == 'q':
		return true
	case e.Key() == tcell.KeyUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case e.Key() == tcell.KeyDown:
		if a.cursor < fieldCount+len(a.monitors)-1 {
			a.cursor++
		}
	case e.Key() == tcell.KeyLeft:
		a.adjust(-1)
	case e.Key() == tcell.KeyRight:
		a.adjust(1)
	case e.Rune() == ' ', e.Key() == tcell.KeyEnter:
		a.activate()
	}
	return false
}

// adjust steps the selected field; monitor rows only toggle.
func (a *App) adjust(dir int) {
	switch a.cursor {
	case fieldColor:
		a.colorIdx = (a.colorIdx + dir + len(colorPresets)) % len(colorPresets)
		a.file.Color = colorPresets[a.colorIdx].hex
		a.send(protocol.SetColor{Hex: a.file.Color})
	case fieldThickness:
		a.file.Thickness = stepU32(a.file.Thickness, dir, 20, 10, 400)
		a.send(protocol.SetThickness{Pixels: a.file.Thickness})
	case fieldOpacity:
		a.file.Opacity = clampF(a.file.Opacity+float64(dir)*0.05, 0, 1)
		a.send(protocol.SetOpacity{Opacity: a.file.Opacity})
	case fieldGlow:
		a.file.Glow = stepU32(a.file.Glow, dir, 10, 0, 400)
		a.send(protocol.SetGlow{Pixels: a.file.Glow})
	case fieldCornerRadius:
		a.file.CornerRadius = clampF(a.file.CornerRadius+float64(dir)*0.25, 0, 10)
		a.send(protocol.SetCornerRadius{Ratio: a.file.CornerRadius})
	case fieldAnimation:
		idx := 0
		for i, name := range animations {
			if name == a.file.Animation {
				idx = i
			}
		}
		a.file.Animation = animations[(idx+dir+len(animations))%len(animations)]
		a.send(protocol.SetAnimation{Name: a.file.Animation})
	case fieldAnimationSpeed:
		a.file.AnimationSpeed = stepU32(a.file.AnimationSpeed, dir, 10, 10, 600)
		a.send(protocol.SetAnimationSpeed{FramesPerCycle: a.file.AnimationSpeed})
	default:
		a.activate()
	}
}

// activate toggles boolean rows: visibility and per-monitor enable.
func (a *App) activate() {
	if a.cursor == fieldVisible {
		if !a.live {
			a.statusLine = "visibility is a live-only control"
			return
		}
		st, err := a.ctl.State()
		if err != nil {
			return
		}
		a.send(protocol.SetVisible{Visible: !st.Visible})
		return
	}
	if idx := a.cursor - fieldCount; idx >= 0 && idx < len(a.monitors) {
		mon := a.monitors[idx]
		a.send(protocol.SetMonitorEnabled{ID: mon.ID, Enabled: !mon.Enabled})
		a.refreshMonitors()
	}
}

// send forwards a change to the daemon when one is connected.
func (a *App) send(cmd protocol.Command) {
	if !a.live {
		return
	}
	if err := a.ctl.Send(cmd); err != nil {
		a.statusLine = fmt.Sprintf("lost daemon connection: %v", err)
		a.live = false
	}
}

// saveOffline persists edits made without a running daemon. Live edits are
// already persisted by the daemon itself.
func (a *App) saveOffline() error {
	if a.live {
		return nil
	}
	return a.file.Save()
}

func (a *App) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()

	r, g, b := config.ParseHexColor(a.file.Color)
	ringStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	drawBorder(s, w, h, ringStyle)

	rows := []string{
		fmt.Sprintf("Color           #%s", a.file.Color),
		fmt.Sprintf("Thickness       %d px", a.file.Thickness),
		fmt.Sprintf("Opacity         %.2f", a.file.Opacity),
		fmt.Sprintf("Glow            %d px", a.file.Glow),
		fmt.Sprintf("Corner radius   %.2f×", a.file.CornerRadius),
		fmt.Sprintf("Animation       %s", a.file.Animation),
		fmt.Sprintf("Anim speed      %d f/cycle", a.file.AnimationSpeed),
		"Toggle visibility",
	}
	for _, m := range a.monitors {
		mark := "[ON] "
		if !m.Enabled {
			mark = "[OFF]"
		}
		rows = append(rows, fmt.Sprintf("%s %s", mark, truncate(m.DisplayName, 28)))
	}

	for i, row := range rows {
		style := tcell.StyleDefault
		if i == a.cursor {
			style = style.Reverse(true)
		}
		drawText(s, 3, 2+i, style, row)
	}
	drawText(s, 3, h-2, tcell.StyleDefault.Dim(true), a.statusLine+"  (arrows adjust, space toggles, q quits)")
	s.Show()
}

// drawBorder previews the ring as a colored frame around the terminal.
func drawBorder(s tcell.Screen, w, h int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, 0, '█', nil, style)
		s.SetContent(x, h-1, '█', nil, style)
	}
	for y := 0; y < h; y++ {
		s.SetContent(0, y, '█', nil, style)
		s.SetContent(w-1, y, '█', nil, style)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}

func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "…")
}

func stepU32(v uint32, dir int, step, lo, hi uint32) uint32 {
	if dir > 0 {
		if v+step > hi {
			return hi
		}
		return v + step
	}
	if v < lo+step {
		return lo
	}
	return v - step
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
