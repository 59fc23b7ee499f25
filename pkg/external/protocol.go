// Package external implements a line-oriented TCP protocol for playing the
// engine from other programs.
//
// Protocol overview:
//   - The server listens on a TCP port; each connection is an independent session
//   - Clients send one command per line and get one line back (show returns a board block)
//   - Positions are position IDs or literal "board:" strings
//   - Errors are single lines starting with "Error:"
package external

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/yourusername/othello/pkg/engine"
)

// Version is reported by the version command.
const Version = "othello external protocol 1.0"

// Server implements the protocol server.
type Server struct {
	engine   *engine.Engine
	options  ServerOptions
	logger   *log.Logger
	mu       sync.Mutex
	listener net.Listener
	running  bool
	active   map[net.Conn]struct{}
	conns    sync.WaitGroup
}

// ServerOptions configures the protocol server.
type ServerOptions struct {
	Host          string      // Interface to bind (default all)
	Port          int         // TCP port to listen on (0 picks a free port)
	PromptEnabled bool        // Send "> " after each response
	Seed          int64       // Seed for sessions that switch to random mode
	Logger        *log.Logger // Connection errors (default stderr)
}

// DefaultServerOptions returns the default options.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port:          1234,
		PromptEnabled: true,
	}
}

// NewServer creates a protocol server. Each session starts with eng's human
// side and strategy.
func NewServer(eng *engine.Engine, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "external: ", log.LstdFlags)
	}
	return &Server{engine: eng, options: opts, logger: logger}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}
	addr := net.JoinHostPort(s.options.Host, fmt.Sprint(s.options.Port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = l
	s.running = true
	s.active = make(map[net.Conn]struct{})
	go s.acceptLoop(l)
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection, then waits for the
// sessions to return.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	err := s.listener.Close()
	for conn := range s.active {
		conn.Close()
	}
	s.mu.Unlock()

	s.conns.Wait()
	return err
}

func (s *Server) acceptLoop(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Printf("accept: %v", err)
			continue
		}
		if !s.track(conn) {
			conn.Close()
			return
		}
		go func() {
			defer s.conns.Done()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}
}

// track registers a new connection; it reports false once Stop has begun.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.active[conn] = struct{}{}
	s.conns.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.active, conn)
	s.mu.Unlock()
}

// handleConnection runs one session until exit or EOF.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	sess := newSession(s.engine, s.options.Seed)
	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	prompt := func() {
		if s.options.PromptEnabled {
			w.WriteString("> ")
		}
		w.Flush()
	}

	prompt()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.logger.Printf("%s: read: %v", conn.RemoteAddr(), err)
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			prompt()
			continue
		}

		resp, quit := sess.process(line)
		w.WriteString(resp)
		if quit {
			w.Flush()
			return
		}
		prompt()
	}
}
