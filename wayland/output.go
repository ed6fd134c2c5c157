// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wayland/output.go
// Summary: wl_output wrapper collecting connector and vendor metadata.

package wayland

// Output is a wl_output global. Metadata fields fill in as events arrive;
// Done fires once the initial burst is complete.
type Output struct {
	conn *Conn
	id   uint32

	// Name is the connector (e.g. DP-2, HDMI-A-1), available from
	// wl_output version 4. Make and Model come from the geometry event.
	Name        string
	Description string
	Make        string
	Model       string

	// OnDone fires after each atomic batch of property events.
	OnDone func(o *Output)
}

// BindOutput binds a wl_output announced under the given registry name.
func BindOutput(c *Conn, name, version uint32) (*Output, error) {
	o := &Output{conn: c}
	id, err := c.registry.bind(name, "wl_output", min(version, 4), o)
	if err != nil {
		return nil, err
	}
	o.id = id
	return o, nil
}

// ID exposes the protocol id, used to synthesize a connector name when the
// compositor predates the name event.
func (o *Output) ID() uint32 { return o.id }

func (o *Output) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0: // geometry
		r.int32() // x
		r.int32() // y
		r.int32() // physical width
		r.int32() // physical height
		r.int32() // subpixel
		o.Make = r.string()
		o.Model = r.string()
	case 2: // done
		if o.OnDone != nil {
			o.OnDone(o)
		}
	case 4: // name
		o.Name = r.string()
	case 5: // description
		o.Description = r.string()
	}
	// mode(1) and scale(3) carry nothing the overlay needs: the layer
	// surface is sized by its configure event, not the output mode.
}

// Release drops the binding.
func (o *Output) Release() error {
	delete(o.conn.objects, o.id)
	return o.conn.send(o.id, 0)
}
