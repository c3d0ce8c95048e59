// Package server implements the local worker-presence simulator. It issues
// WebSocket tokens and streams scripted presence frames so the CLI and the
// channel package can be exercised end to end without the real service.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/constants"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// tokenTTL is how long an issued token stays valid before first use.
const tokenTTL = 30 * time.Second

// Server simulates the presence service's token and WebSocket endpoints.
type Server struct {
	scenario *Scenario
	interval time.Duration
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	tokens map[string]time.Time
}

// New creates a simulator for the given scenario.
func New(scenario *Scenario, log *slog.Logger) (*Server, error) {
	interval, err := scenario.IntervalDuration()
	if err != nil {
		return nil, err
	}
	return &Server{
		scenario: scenario,
		interval: interval,
		logger:   log,
		tokens:   make(map[string]time.Time),
	}, nil
}

// Routes returns the chi router with all simulator endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post(constants.SocketTokenPath, s.handleIssueToken)
	r.Get(constants.WorkerListSocketPath, s.handleWorkers)
	r.Get(constants.WorkerStatusSocketPath, s.handleStatus)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(constants.ContentTypeHeader, "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"status":"ok","component":"local-presence"}`)
}

// handleIssueToken issues a short-lived single-use token. Any non-empty API
// key is accepted; the simulator has no user database.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(constants.APIKeyHeader) == "" {
		writeError(w, http.StatusUnauthorized, "missing API key")
		return
	}

	token := s.issueToken()
	w.Header().Set(constants.ContentTypeHeader, "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(api.SocketTokenResponse{Token: token})
}

func (s *Server) issueToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = time.Now().Add(tokenTTL)
	s.mu.Unlock()
	return token
}

// consumeToken validates and invalidates a token in one step: tokens are
// single-purpose, one connection each.
func (s *Server) consumeToken(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	delete(s.tokens, token)
	return time.Now().Before(expiry)
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, func(_ int) (any, api.FrameType) {
		return api.WorkersUpdatePayload{Workers: s.scenario.Snapshot()}, api.FrameTypeWorkersUpdate
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, func(tick int) (any, api.FrameType) {
		connected := s.scenario.ConnectedAt(tick)
		return api.WorkerStatusPayload{Connected: &connected}, api.FrameTypeWorkerStatus
	})
}

// stream upgrades the request and writes one frame immediately, then one per
// interval, until the client goes away.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, next func(tick int) (any, api.FrameType)) {
	if !s.consumeToken(r.URL.Query().Get("token")) {
		writeError(w, http.StatusForbidden, "invalid or expired token")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// Drain inbound control traffic; a read error means the client is gone.
	g.Go(func() error {
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				cancel()
				return nil //nolint:nilerr // client disconnect ends the stream cleanly
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick := 0
		for {
			payload, frameType := next(tick)
			if writeErr := s.writeFrame(conn, frameType, payload); writeErr != nil {
				cancel()
				return nil
			}
			tick++
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	_ = g.Wait()
	s.logger.Debug("stream ended", "path", r.URL.Path)
}

func (s *Server) writeFrame(conn *websocket.Conn, frameType api.FrameType, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(api.Frame{Type: frameType, Payload: raw})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(constants.ContentTypeHeader, "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}
