package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dragondice/companion-server-go/internal/config"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI client is a local desktop application; cross-origin checks
	// do not apply to its websocket handshake.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketServer serves the companion protocol over one hub.
type WebSocketServer struct {
	cfg    config.WebSocketConfig
	hub    *Hub
	logger *zap.Logger
	http   *http.Server
}

// NewWebSocketServer creates the websocket server over a hub.
func NewWebSocketServer(cfg config.WebSocketConfig, hub *Hub, logger *zap.Logger) *WebSocketServer {
	s := &WebSocketServer{cfg: cfg, hub: hub, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// ListenAndServe starts the hub loop and blocks serving HTTP.
func (s *WebSocketServer) ListenAndServe() error {
	go s.hub.Run()
	s.logger.Info("websocket server listening", zap.String("address", s.cfg.Address))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener and the hub.
func (s *WebSocketServer) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	return s.http.Shutdown(ctx)
}

func (s *WebSocketServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := NewClient(s.hub, conn, s.logger)
	s.hub.register <- client
	go client.WritePump()
	go client.ReadPump()
}
