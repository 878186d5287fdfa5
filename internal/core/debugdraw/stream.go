package debugdraw

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/zeusync/motionmatching/internal/core/observability/log"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// ErrStreamClosed is returned by Flush after Close.
var ErrStreamClosed = errors.New("debug stream is closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Frame is one batch of lines sent to viewers.
type Frame struct {
	Seq   uint64 `json:"seq"`
	Lines []Line `json:"lines"`
}

// Stream buffers lines and broadcasts them to websocket viewers on Flush.
type Stream struct {
	logger log.Log

	// writeMu serialises Flush calls; a websocket connection allows one
	// writer at a time.
	writeMu sync.Mutex

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	pending []Line
	seq     uint64
	closed  bool
}

var _ Display = (*Stream)(nil)

// NewStream creates a stream with no viewers.
func NewStream(logger log.Log) *Stream {
	return &Stream{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (s *Stream) DrawLine(start, end spatial.Vec, color Color) {
	s.mu.Lock()
	s.pending = append(s.pending, Line{Start: start, End: end, Color: color})
	s.mu.Unlock()
}

// Handler upgrades viewer connections. Incoming messages are discarded; the
// read loop only notices disconnects.
func (s *Stream) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("debug stream upgrade failed", log.Error(err))
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		s.logger.Debug("debug viewer connected", log.String("remote", r.RemoteAddr))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		s.drop(conn)
	})
}

// Flush sends all pending lines as one frame to every viewer. Viewers that
// fail to receive it are disconnected. Writes happen outside mu so a slow
// viewer does not block drawing, new connections or Close.
func (s *Stream) Flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.seq++
	frame := Frame{Seq: s.seq, Lines: s.pending}
	s.pending = nil
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		clients = append(clients, conn)
	}
	s.mu.Unlock()

	for _, conn := range clients {
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Warn("debug viewer write failed", log.Error(err))
			s.drop(conn)
		}
	}
	return nil
}

func (s *Stream) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every viewer. Later connections are refused.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = map[*websocket.Conn]struct{}{}
	return nil
}

func (s *Stream) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
	}
	s.mu.Unlock()
}
