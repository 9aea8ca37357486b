// Package session implements the per-stream sub-protocol sessions
// spec.md §4.5 describes: framing, heartbeat, dispatch, and backpressure
// over a websocket stream tagged list/main/room/observe/chat. Grounded on
// apps/server/internal/gateway/gateway.go's Connection (readPump /
// writePump over a buffered Send channel), adapted from protobuf binary
// frames to JSON text frames per spec.md §6.
package session

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Constants from spec.md §6.
const (
	HeartbeatInterval = 2 * time.Second
	ClientTimeout     = 4 * time.Second
)

const sendQueueSize = 64

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Session owns one websocket stream: JSON framing, ping/pong heartbeat,
// and a bounded outbound queue. Dispatch of decoded messages is left to
// the sub-protocol handler that embeds it (ListSession, StatusSession,
// RoomSession, ChatSession).
type Session struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	// onClose runs exactly once, from whichever pump notices the stream
	// is gone first, so sub-protocol handlers can deregister themselves.
	onClose func()
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

// Enqueue marshals v as one JSON text frame and queues it for write. If
// the outbound queue is full the stream is closed per spec.md §4.5's
// backpressure rule (client should reconnect).
func (s *Session) Enqueue(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Session] marshal failed: %v", err)
		return
	}
	select {
	case s.send <- data:
	case <-s.done:
	default:
		log.Printf("[Session] outbound queue full, closing stream")
		s.Close()
	}
}

// Close shuts the session down; safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// readPump decodes inbound text frames and hands each to onMessage. It
// returns (and closes the session) on any read error, including a
// missed-heartbeat timeout enforced via the read deadline.
func (s *Session) readPump(onMessage func([]byte)) {
	defer s.Close()

	s.conn.SetReadLimit(65536)
	s.conn.SetReadDeadline(time.Now().Add(ClientTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(ClientTimeout))
		return nil
	})

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Session] read error: %v", err)
			}
			return
		}
		if msgType == websocket.TextMessage {
			onMessage(data)
		}
	}
}

// writePump drains the outbound queue and sends a ping every
// HeartbeatInterval; a failed ping closes the stream.
func (s *Session) writePump() {
	ticker := time.NewTicker(HeartbeatInterval)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(ClientTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(ClientTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// start launches the read/write pumps and installs onClose.
func (s *Session) start(onClose func(), onMessage func([]byte)) {
	s.onClose = onClose
	go s.writePump()
	go s.readPump(onMessage)
}

// queryInt parses the named query parameter as an int, per the
// ?user_no=&room_id= connection-time addressing spec.md §1 leaves to the
// session layer now that identity cookies are out of scope.
func queryInt(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
