// Copyright © 2025 Ringlight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: client/client.go
// Summary: Thin control-channel client used by external tools and the ctl
// subcommand.

package client

import (
	"bufio"
	"fmt"
	"net"

	"ringlight/config"
	"ringlight/protocol"
)

// Client speaks the line-delimited JSON control protocol over the daemon's
// Unix socket. Each call opens a fresh connection; the protocol is cheap
// enough that holding one open buys nothing.
type Client struct {
	socketPath string
}

func New(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Running reports whether a daemon is listening on the socket.
func (c *Client) Running() bool {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Send delivers one command and discards any response.
func (c *Client) Send(cmd protocol.Command) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()
	return writeCommand(conn, cmd)
}

// State sends GetState and decodes the single-line reply.
func (c *Client) State() (protocol.State, error) {
	conn, err := c.dial()
	if err != nil {
		return protocol.State{}, err
	}
	defer conn.Close()
	if err := writeCommand(conn, protocol.GetState{}); err != nil {
		return protocol.State{}, err
	}
	line, err := readLine(conn)
	if err != nil {
		return protocol.State{}, err
	}
	return protocol.DecodeState(line)
}

// Monitors sends GetMonitors and decodes the registry snapshot.
func (c *Client) Monitors() ([]config.Monitor, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err := writeCommand(conn, protocol.GetMonitors{}); err != nil {
		return nil, err
	}
	line, err := readLine(conn)
	if err != nil {
		return nil, err
	}
	list, err := protocol.DecodeMonitors(line)
	if err != nil {
		return nil, err
	}
	return list.Monitors, nil
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("ringlight is not running: %w", err)
	}
	return conn, nil
}

func writeCommand(conn net.Conn, cmd protocol.Command) error {
	line, err := protocol.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = conn.Write(line)
	return err
}

func readLine(conn net.Conn) ([]byte, error) {
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return line, nil
}
