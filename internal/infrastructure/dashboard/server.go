// Package dashboard serves live progress data over HTTP and WebSocket.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/workintel/workintel/pkg/application"
	"github.com/workintel/workintel/pkg/domain/events"
)

// Server exposes progress summaries and a WebSocket event feed. Connected
// clients receive every domain event as JSON.
type Server struct {
	progress *application.ProgressService
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

func NewServer(progress *application.ProgressService) *Server {
	return &Server{
		progress: progress,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// RegisterHandlers subscribes the server to all domain events so connected
// dashboards update live.
func (s *Server) RegisterHandlers(dispatcher *events.EventDispatcher) {
	dispatcher.RegisterWildcard("dashboard-broadcast", func(ctx context.Context, event events.DomainEvent) error {
		s.broadcast(event)
		return nil
	})
}

// Handler returns the HTTP mux for the dashboard endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks/{taskID}/progress", s.handleProgress)
	mux.HandleFunc("GET /api/tasks/{taskID}/blockers", s.handleBlockers)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	summary, err := s.progress.TrackProgress(r.Context(), r.PathValue("taskID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) handleBlockers(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.progress.IdentifyBlockers(r.Context(), r.PathValue("taskID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Drain reads so control frames are processed; drop the client when the
	// connection dies.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcast(event events.DomainEvent) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":         event.EventType(),
		"aggregate_id": event.AggregateID(),
		"timestamp":    event.OccurredAt().Format(time.RFC3339),
		"event":        event,
	})
	if err != nil {
		return
	}

	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.drop(conn)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		conn.Close()
	}
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
