// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/manager.go
// Summary: Output surface manager: one overlay ring surface per connected
// display, created and torn down as the compositor announces outputs.
// Notes: Everything here runs on the presentation dispatch thread. The only
// shared object it touches is the config store.

package overlay

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"ringlight/config"
	"ringlight/render"
	"ringlight/wayland"
)

// poolCapacity holds two 4K ARGB frames per display, reused every frame.
const poolCapacity = 3840 * 2160 * 4 * 2

// ErrMissingGlobals reports a compositor without the required capabilities.
var ErrMissingGlobals = errors.New("overlay: compositor lacks wl_compositor, wl_shm or layer shell")

// Manager owns every rendering surface. It is driven entirely by
// presentation-layer events; configuration is sampled fresh each frame.
type Manager struct {
	conn  *wayland.Conn
	store *config.Store

	compositor *wayland.Compositor
	layerShell *wayland.LayerShell
	shm        *wayland.Shm

	barHeight   int32
	barPosition config.BarPosition

	start   time.Time
	outputs map[uint32]*outputState // registry global name -> output
	rings   map[uint32]*ring        // wl_surface id -> ring

	// exit terminates the process when the last surface disappears.
	// Swapped out by tests.
	exit func(code int)
}

type outputState struct {
	output    *wayland.Output
	connector string // set once the ring exists
}

// ring is the per-display surface state: buffer pool, current geometry and
// the connector id it belongs to. Never shared across displays.
type ring struct {
	connector      string
	surface        *wayland.Surface
	layer          *wayland.LayerSurface
	pool           *wayland.Pool
	width, height  uint32
	firstConfigure bool
}

// NewManager wires registry handlers on conn. Call Start afterwards to
// perform the initial roundtrips and capability check.
func NewManager(conn *wayland.Conn, store *config.Store, barHeight uint32, barPosition config.BarPosition) *Manager {
	m := &Manager{
		conn:        conn,
		store:       store,
		barHeight:   int32(barHeight),
		barPosition: barPosition,
		start:       time.Now(),
		outputs:     make(map[uint32]*outputState),
		rings:       make(map[uint32]*ring),
		exit:        os.Exit,
	}

	reg := conn.Registry()
	reg.OnGlobal = m.globalAdded
	reg.OnGlobalRemove = m.globalRemoved
	return m
}

// Start settles the registry and fails if a required global is missing.
// Missing capabilities are fatal: there is nothing to degrade to.
func (m *Manager) Start() error {
	// First roundtrip announces globals, second settles the output
	// metadata bursts for outputs bound during the first.
	if err := m.conn.Roundtrip(); err != nil {
		return err
	}
	if m.compositor == nil || m.shm == nil || m.layerShell == nil {
		return ErrMissingGlobals
	}
	return m.conn.Roundtrip()
}

// Run dispatches presentation events until a fatal error.
func (m *Manager) Run() error {
	for {
		if err := m.conn.Dispatch(); err != nil {
			return err
		}
	}
}

func (m *Manager) globalAdded(name uint32, iface string, version uint32) {
	var err error
	switch iface {
	case "wl_compositor":
		m.compositor, err = wayland.BindCompositor(m.conn, name, version)
	case "wl_shm":
		m.shm, err = wayland.BindShm(m.conn, name, version)
	case wayland.LayerShellInterface:
		m.layerShell, err = wayland.BindLayerShell(m.conn, name, version)
	case "wl_output":
		var out *wayland.Output
		out, err = wayland.BindOutput(m.conn, name, version)
		if err == nil {
			m.outputs[name] = &outputState{output: out}
			out.OnDone = func(o *wayland.Output) { m.outputReady(name, o) }
		}
	}
	if err != nil {
		log.Printf("overlay: failed to bind %s: %v", iface, err)
	}
}

// outputReady runs after an output's property burst. The first burst
// creates the ring; later bursts only refresh the cosmetic display name.
func (m *Manager) outputReady(name uint32, out *wayland.Output) {
	state, ok := m.outputs[name]
	if !ok {
		return
	}
	connector := connectorID(out)
	display := displayName(out, connector)

	if state.connector != "" {
		// Metadata update: identity is the connector, which never changes
		// while the output stays connected.
		m.store.Upsert(state.connector, display)
		return
	}
	if m.compositor == nil || m.layerShell == nil || m.shm == nil {
		return
	}

	if err := m.createRing(out, connector, display); err != nil {
		log.Printf("overlay: failed to create surface for %s: %v", connector, err)
		return
	}
	state.connector = connector
	log.Printf("overlay: display %s (%s) attached", connector, display)
}

// connectorID prefers the hardware connector name, synthesizing one from
// the protocol id for compositors that never send it.
func connectorID(out *wayland.Output) string {
	if out.Name != "" {
		return out.Name
	}
	return fmt.Sprintf("output-%d", out.ID())
}

// displayName prefers vendor+model, then model, then the connector id.
func displayName(out *wayland.Output, connector string) string {
	switch {
	case out.Make != "" && out.Model != "":
		return out.Make + " " + out.Model
	case out.Make != "":
		return out.Make
	case out.Model != "":
		return out.Model
	default:
		return connector
	}
}

// createRing builds the full-output overlay: topmost layer, all edges
// anchored, click-through, no keyboard focus, reserving no space, with a
// margin only on the edge the status bar occupies.
func (m *Manager) createRing(out *wayland.Output, connector, display string) error {
	surface, err := m.compositor.CreateSurface()
	if err != nil {
		return err
	}

	region, err := m.compositor.CreateRegion()
	if err != nil {
		surface.Destroy()
		return err
	}
	if err := surface.SetInputRegion(region); err != nil {
		region.Destroy()
		surface.Destroy()
		return err
	}
	region.Destroy()

	layer, err := m.layerShell.GetLayerSurface(surface, out, wayland.LayerOverlay, "ringlight")
	if err != nil {
		surface.Destroy()
		return err
	}
	layer.SetAnchor(wayland.AnchorAll)
	layer.SetKeyboardInteractivity(wayland.KeyboardInteractivityNone)
	layer.SetExclusiveZone(-1)

	top, right, bottom, left := barMargins(m.barPosition, m.barHeight)
	layer.SetMargin(top, right, bottom, left)

	surfaceID := surface.ID()
	layer.OnConfigure = func(w, h uint32) { m.configured(surfaceID, w, h) }
	layer.OnClosed = func() { m.surfaceClosed(surfaceID) }

	if err := surface.Commit(); err != nil {
		return err
	}

	pool, err := m.shm.CreatePool(poolCapacity)
	if err != nil {
		layer.Destroy()
		surface.Destroy()
		return err
	}

	m.rings[surfaceID] = &ring{
		connector:      connector,
		surface:        surface,
		layer:          layer,
		pool:           pool,
		firstConfigure: true,
	}
	m.store.Upsert(connector, display)
	return nil
}

// barMargins maps the configured bar position onto the one non-zero margin.
func barMargins(pos config.BarPosition, height int32) (top, right, bottom, left int32) {
	switch pos {
	case config.BarBottom:
		return 0, 0, height, 0
	case config.BarLeft:
		return 0, 0, 0, height
	case config.BarRight:
		return 0, height, 0, 0
	default:
		return height, 0, 0, 0
	}
}

// configured records the size granted by the compositor. The first
// configure is the signal that buffers may be submitted.
func (m *Manager) configured(surfaceID uint32, w, h uint32) {
	r, ok := m.rings[surfaceID]
	if !ok {
		return
	}
	r.width, r.height = w, h
	r.firstConfigure = false
	m.draw(surfaceID)
}

// globalRemoved handles output disconnects. Lookup is by connector id, not
// display name: cosmetic names may repeat across identical monitors.
func (m *Manager) globalRemoved(name uint32) {
	state, ok := m.outputs[name]
	if !ok {
		return
	}
	delete(m.outputs, name)
	state.output.Release()
	if state.connector == "" {
		return
	}

	for id, r := range m.rings {
		if r.connector == state.connector {
			m.teardown(id, r)
			break
		}
	}
	m.store.Remove(state.connector)
	log.Printf("overlay: display %s detached", state.connector)
}

// surfaceClosed drops a surface discarded by the compositor. An empty
// surface set means there is nothing left to serve: terminate.
func (m *Manager) surfaceClosed(surfaceID uint32) {
	r, ok := m.rings[surfaceID]
	if !ok {
		return
	}
	m.teardown(surfaceID, r)
	if len(m.rings) == 0 {
		log.Printf("overlay: no surfaces remain, exiting")
		m.exit(0)
	}
}

func (m *Manager) teardown(surfaceID uint32, r *ring) {
	delete(m.rings, surfaceID)
	r.layer.Destroy()
	r.surface.Destroy()
	r.pool.Destroy()
}

// draw composites and submits one frame for the surface, then re-arms the
// frame signal so animation continues at the compositor's pace.
func (m *Manager) draw(surfaceID uint32) {
	r, ok := m.rings[surfaceID]
	if !ok {
		return
	}
	// No buffer may be submitted before the compositor's first configure.
	if r.firstConfigure {
		return
	}
	if r.width == 0 || r.height == 0 {
		return
	}

	buf, canvas, err := r.pool.Acquire(int32(r.width), int32(r.height))
	if err != nil {
		log.Printf("overlay: %s: %v", r.connector, err)
		return
	}

	// A registry-disabled display still gets a transparent frame so stale
	// ring pixels are cleared, never a skipped submission.
	enabled := m.store.Enabled(r.connector)
	snap := m.store.Snapshot()
	elapsed := time.Since(m.start).Seconds()
	render.Compose(canvas, int(r.width), int(r.height), snap, elapsed, enabled)

	// Damage + frame interest + attach all ride the same commit.
	r.surface.DamageBuffer(0, 0, int32(r.width), int32(r.height))
	r.surface.Frame(func() { m.draw(surfaceID) })
	r.surface.Attach(buf)
	r.surface.Commit()
}
