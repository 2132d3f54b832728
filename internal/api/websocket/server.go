package websocket

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server accepts schedule subscribers and broadcasts updates to them.
type Server struct {
	server *http.Server
	hub    *Hub
	log    *zap.Logger
}

// NewServer creates the websocket server around a fresh hub.
func NewServer(log *zap.Logger) *Server {
	return &Server{hub: NewHub(), log: log}
}

// Start runs the hub and serves websocket upgrades until shutdown.
func (s *Server) Start(port string) error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/schedule", s.handleSchedule)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	s.log.Info("websocket server listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// handleSchedule upgrades the connection and registers the subscriber.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
		log:  s.log,
	}
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastSchedule pushes a serialized schedule to every subscriber.
func (s *Server) BroadcastSchedule(encoded []byte) {
	s.hub.Broadcast(encoded)
}

// Shutdown drains the HTTP server, then stops the hub so client goroutines
// see their send channels close.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	s.hub.Stop()
	return err
}
