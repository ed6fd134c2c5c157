package server

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"ringlight/config"
	"ringlight/protocol"
)

// Server listens on a local Unix socket and applies control commands to the
// shared configuration store. It never touches rendering surfaces.
type Server struct {
	path  string
	store *config.Store
	save  func()

	listener net.Listener
	lockFile *os.File
	quit     chan struct{}

	// OnQuit runs when a Quit command arrives. Defaults to terminating the
	// process; tests swap it for Close.
	OnQuit func()
}

// NewServer builds a control server bound to path. save runs after every
// successful mutation and may be nil.
func NewServer(path string, store *config.Store, save func()) *Server {
	if save == nil {
		save = func() {}
	}
	s := &Server{path: path, store: store, save: save, quit: make(chan struct{})}
	s.OnQuit = func() {
		log.Printf("server: quit requested, terminating")
		s.Close()
		os.Exit(0)
	}
	return s
}

// Start claims the single-instance lock, removes any stale endpoint, binds
// the socket owner-only and begins accepting connections. On error the
// daemon keeps rendering without live control.
func (s *Server) Start() error {
	if err := s.acquireLock(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.path); err != nil {
		s.releaseLock()
		return err
	}
	l, err := net.Listen("unix", s.path)
	if err != nil {
		s.releaseLock()
		return err
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		l.Close()
		os.Remove(s.path)
		s.releaseLock()
		return err
	}
	s.listener = l
	go s.acceptLoop()
	return nil
}

// acquireLock takes an advisory flock next to the socket so a second
// instance fails fast instead of silently stealing the endpoint.
func (s *Server) acquireLock() error {
	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return fmt.Errorf("another instance holds %s", s.path)
		}
		return err
	}
	s.lockFile = f
	return nil
}

// releaseLock hands the single-instance claim back so a later process can
// take over control.
func (s *Server) releaseLock() {
	if s.lockFile == nil {
		return
	}
	s.lockFile.Close()
	os.Remove(s.lockFile.Name())
	s.lockFile = nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			continue
		}
		go s.serveConn(conn)
	}
}

// serveConn handles one connection until the peer closes it. Malformed
// lines are skipped; the connection stays usable.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		cmd, err := protocol.DecodeCommand(line)
		if err != nil {
			log.Printf("server: skipping malformed command: %v", err)
			continue
		}
		s.apply(cmd, conn)
	}
}

// apply mutates the store or answers a query. Mutations persist the full
// snapshot through the save hook.
func (s *Server) apply(cmd protocol.Command, conn net.Conn) {
	switch c := cmd.(type) {
	case protocol.SetColor:
		r, g, b := config.ParseHexColor(c.Hex)
		s.store.SetColor(r, g, b)
	case protocol.SetThickness:
		s.store.SetThickness(c.Pixels)
	case protocol.SetOpacity:
		s.store.SetOpacity(c.Opacity)
	case protocol.SetGlow:
		s.store.SetGlow(c.Pixels)
	case protocol.SetCornerRadius:
		s.store.SetCornerRadius(c.Ratio)
	case protocol.SetAnimation:
		s.store.SetAnimation(config.ParseAnimation(c.Name))
	case protocol.SetAnimationSpeed:
		s.store.SetAnimationSpeed(c.FramesPerCycle)
	case protocol.SetVisible:
		s.store.SetVisible(c.Visible)
	case protocol.SetMonitorEnabled:
		s.store.SetEnabled(c.ID, c.Enabled)
	case protocol.GetState:
		s.reply(conn, func() ([]byte, error) {
			return protocol.EncodeState(protocol.StateFromSnapshot(s.store.Snapshot()))
		})
		return
	case protocol.GetMonitors:
		s.reply(conn, func() ([]byte, error) {
			return protocol.EncodeMonitors(protocol.MonitorList{Monitors: s.store.Monitors()})
		})
		return
	case protocol.Quit:
		s.save()
		s.OnQuit()
		return
	default:
		return
	}
	s.save()
}

func (s *Server) reply(conn net.Conn, encode func() ([]byte, error)) {
	line, err := encode()
	if err != nil {
		log.Printf("server: failed to encode response: %v", err)
		return
	}
	line = append(line, '\n')
	if _, err := conn.Write(line); err != nil {
		log.Printf("server: failed to write response: %v", err)
	}
}

// Close stops accepting and removes the endpoint. Live connections are not
// drained.
func (s *Server) Close() {
	select {
	case <-s.quit:
		return
	default:
		close(s.quit)
	}
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.path)
	s.releaseLock()
}
