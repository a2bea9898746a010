package apihttp

import (
	"context"
	"log/slog"
	"net/http"

	"abrengine/internal/app"
	"abrengine/internal/domain"
	"abrengine/internal/domain/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ControlPlane is the slice of the controller the HTTP layer consumes.
type ControlPlane interface {
	ID() string
	Running() bool
	RecordNetworkStats(sample domain.NetworkSample) error
	UpdatePosition(seconds float64) error
	RecordViewingEvent(record domain.ViewingRecord) error
	Snapshot() domain.Snapshot
	PreloadList() []int
	CurrentQuality() string
	Decisions() []domain.QualityDecision
}

// ViewingArchive serves the durable viewing-event log for the history route.
type ViewingArchive interface {
	ListRecent(ctx context.Context, limit int) ([]ports.ArchivedViewing, error)
}

// TuningController exposes the runtime-tunable decision knobs.
type TuningController interface {
	Get() app.TuningSettings
	Update(settings app.TuningSettings) error
}

type Server struct {
	control        ControlPlane
	archive        ViewingArchive
	tuning         TuningController
	allowedOrigins []string
	logger         *slog.Logger
	handler        http.Handler
	wsHub          *wsHub
}

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithArchive(archive ViewingArchive) ServerOption {
	return func(s *Server) {
		s.archive = archive
	}
}

func WithTuning(tuning TuningController) ServerOption {
	return func(s *Server) {
		s.tuning = tuning
	}
}

// WithAllowedOrigins configures the CORS allowed origins whitelist.
// When empty (default), any origin is permitted (development mode).
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func NewServer(control ControlPlane, opts ...ServerOption) *Server {
	s := &Server{control: control}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.wsHub = newWSHub(s.logger)
	go s.wsHub.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/position", s.handlePosition)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/v1/preload", s.handlePreload)
	mux.HandleFunc("/api/v1/quality", s.handleQuality)
	mux.HandleFunc("/api/v1/decisions", s.handleDecisions)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/settings/tuning", s.handleTuningSettings)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.handleWS)

	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "abrengine",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/healthz"
		}),
	)
	s.handler = recoveryMiddleware(s.logger, rateLimitMiddleware(100, 200, metricsMiddleware(corsMiddleware(s.allowedOrigins, traced))))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// BroadcastSnapshot pushes a published snapshot to all WebSocket subscribers.
// Wired as the controller's OnPublish hook.
func (s *Server) BroadcastSnapshot(snap domain.Snapshot) {
	if s.wsHub != nil {
		s.wsHub.Broadcast("snapshot", snap)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.wsHub == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	client := &wsClient{
		hub:  s.wsHub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	select {
	case s.wsHub.register <- client:
	case <-s.wsHub.done:
		conn.Close()
		return
	}
	client.queue(wsMessage{Type: "hello", Data: helloPayload{
		InstanceID: s.control.ID(),
		Snapshot:   s.control.Snapshot(),
	}})
	go client.writePump()
	go client.readPump()
}

// Close disconnects all WebSocket clients and stops the hub.
func (s *Server) Close() {
	if s.wsHub != nil {
		s.wsHub.Close()
	}
}
