package output

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/jlog"
	"github.com/gorilla/websocket"
)

// WebSocketSink streams IterationData as JSON frames to every connected
// client, for a live dashboard. Grounded on telemetry.TelemetryServer's
// accept-loop/broadcast-to-listeners shape (NewX/Start/Stop/handleConnection),
// adapted from a raw TCP framing protocol to gorilla/websocket's message
// framing since this sink targets browser clients rather than the node's
// own peer protocol.
type WebSocketSink struct {
	upgrader websocket.Upgrader
	log      jlog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewWebSocketSink returns a sink ready to accept client connections at its
// Handler.
func NewWebSocketSink() *WebSocketSink {
	return &WebSocketSink{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:     jlog.Root(),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades incoming HTTP connections to websocket clients that
// receive every subsequent IterationResult/Exception/VerbosePrint call.
func (s *WebSocketSink) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(jlog.Output, "websocket upgrade failed", "err", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *WebSocketSink) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *WebSocketSink) broadcast(frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.log.Warn(jlog.Output, "websocket write failed, dropping client", "err", err)
			go s.removeClient(conn)
		}
	}
}

func (s *WebSocketSink) IterationResult(d bench.IterationData) error {
	s.broadcast(struct {
		Type string             `json:"type"`
		Data bench.IterationData `json:"data"`
	}{Type: "iteration", Data: d})
	return nil
}

func (s *WebSocketSink) Exception(err error) {
	s.broadcast(struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}{Type: "exception", Error: err.Error()})
}

func (s *WebSocketSink) VerbosePrint(msg string) {
	s.broadcast(struct {
		Type string `json:"type"`
		Msg  string `json:"msg"`
	}{Type: "note", Msg: msg})
}
