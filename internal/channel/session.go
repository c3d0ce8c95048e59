// Package channel implements the auto-reconnecting WebSocket subscriptions
// that keep a syncdeck client informed about remote workers: the full worker
// roster and the reachability of the single linked worker. Both are built on
// one shared session type that owns the socket, the reconnect timer, and the
// intentional-close flag.
package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/auth"
	"github.com/syncdeck/syncdeck/internal/constants"

	"github.com/gorilla/websocket"
)

// Notifier surfaces a transient user-visible warning. The CLI backs it with
// terminal output; a UI embedding would back it with a toast.
type Notifier interface {
	Warnf(format string, args ...any)
}

// Config carries the collaborators shared by every channel.
type Config struct {
	// Gate is the identity store; a channel never dials while it reports
	// no signed-in identity.
	Gate *auth.SessionStore
	// Broker supplies the short-lived connection token.
	Broker *auth.TokenBroker
	// Endpoint is the WebSocket base URL (ws:// or wss://), without path.
	Endpoint string
	// ReconnectDelay overrides the fixed retry delay. Zero means the default.
	ReconnectDelay time.Duration
	// Dialer overrides the WebSocket dialer. Nil means websocket.DefaultDialer.
	Dialer *websocket.Dialer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// session is one reconnecting WebSocket connection. At most one live socket
// exists per session; events from a superseded socket are discarded by
// comparing generation numbers.
type session struct {
	gate    *auth.SessionStore
	broker  *auth.TokenBroker
	target  string
	delay   time.Duration
	dialer  *websocket.Dialer
	logger  *slog.Logger
	handler func(frame *api.Frame)
	// onClosed runs after an unintentional close, before reconnect
	// scheduling. Returning true suppresses the reconnect timer.
	onClosed func(everOpened bool) bool

	// unsupported marks a target the dialer can never open (non-ws scheme).
	// Such a session stays permanently idle: no dial, no retries.
	unsupported bool

	mu              sync.Mutex
	conn            *websocket.Conn
	gen             uint64
	open            bool
	everOpened      bool
	lastErr         string
	shouldReconnect bool
	connecting      bool
	timer           *time.Timer
	unsubscribe     func()
}

func newSession(cfg Config, path string, handler func(frame *api.Frame)) *session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = constants.DefaultReconnectDelay
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	target := joinEndpoint(cfg.Endpoint, path)
	s := &session{
		gate:            cfg.Gate,
		broker:          cfg.Broker,
		target:          target,
		delay:           delay,
		dialer:          dialer,
		logger:          log.With("endpoint", path),
		handler:         handler,
		shouldReconnect: true,
	}
	if u, err := url.Parse(target); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		s.unsupported = true
		s.logger.Error("websocket transport unavailable for endpoint", "target", target)
	}
	return s
}

// Start subscribes to identity changes and connects if an identity is already
// present. Identity appearing later triggers a connect only when no socket is
// live; identity disappearing does not tear down an open socket, the gate is
// simply re-checked on the next connect cycle.
func (s *session) Start() {
	s.mu.Lock()
	if s.unsubscribe == nil && s.shouldReconnect {
		s.unsubscribe = s.gate.Subscribe(func(identity string) {
			if identity == "" {
				return
			}
			s.mu.Lock()
			live := s.conn != nil || s.connecting
			s.mu.Unlock()
			if !live {
				s.Connect()
			}
		})
	}
	s.mu.Unlock()

	if s.gate.Identity() != "" {
		s.Connect()
	}
}

// Connect attempts to open the socket. It is a no-op while signed out, after
// Close, or while another attempt is already in flight. A pending reconnect
// timer is cancelled so the attempt runs immediately instead of double-scheduling.
func (s *session) Connect() {
	s.mu.Lock()
	if !s.shouldReconnect || s.unsupported {
		s.mu.Unlock()
		return
	}
	if s.gate.Identity() == "" {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.connecting || s.conn != nil {
		s.mu.Unlock()
		return
	}
	s.connecting = true
	s.mu.Unlock()

	token := s.broker.Acquire(context.Background())
	if token == "" {
		// Recoverable: the session is usually still bootstrapping. No timer
		// here; the gate subscription retries when identity settles.
		s.mu.Lock()
		s.connecting = false
		s.mu.Unlock()
		return
	}

	conn, resp, err := s.dialer.Dial(s.target+"?token="+url.QueryEscape(token), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	s.mu.Lock()
	s.connecting = false
	if err != nil {
		s.lastErr = err.Error()
		s.logger.Warn("websocket dial failed", "error", err)
		s.scheduleReconnectLocked()
		s.mu.Unlock()
		return
	}
	if !s.shouldReconnect {
		// Close raced the dial; discard the fresh socket.
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.gen++
	gen := s.gen
	s.conn = conn
	s.open = true
	s.everOpened = true
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Debug("channel connected")
	go s.readLoop(conn, gen)
}

// readLoop decodes inbound frames and hands them to the channel handler.
// It runs on its own goroutine, one per socket instance, so message handling
// is serialized per channel.
func (s *session) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.handleClose(conn, gen, err)
			return
		}

		var frame api.Frame
		if jsonErr := json.Unmarshal(data, &frame); jsonErr != nil {
			// Malformed frames are dropped; the socket stays up.
			s.logger.Warn("dropping malformed frame", "error", jsonErr)
			continue
		}

		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			_ = conn.Close()
			return
		}

		s.handler(&frame)
	}
}

// handleClose processes the end of one socket instance. Closes from a
// superseded socket are ignored so they can never clobber a newer connection.
func (s *session) handleClose(conn *websocket.Conn, gen uint64, err error) {
	_ = conn.Close()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.open = false
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.lastErr = err.Error()
	}
	everOpened := s.everOpened
	shouldReconnect := s.shouldReconnect
	onClosed := s.onClosed
	s.mu.Unlock()

	if !shouldReconnect {
		return
	}
	s.logger.Debug("channel closed", "error", err)

	if onClosed != nil && onClosed(everOpened) {
		s.mu.Lock()
		s.shouldReconnect = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.scheduleReconnectLocked()
	s.mu.Unlock()
}

// scheduleReconnectLocked arms the reconnect timer. Exactly one timer can be
// pending; the caller must hold s.mu.
func (s *session) scheduleReconnectLocked() {
	if !s.shouldReconnect || s.timer != nil {
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()
		s.Connect()
	})
}

// Close tears the session down for good: no reconnect will ever fire after it
// returns. Safe to call multiple times.
func (s *session) Close() {
	s.mu.Lock()
	s.shouldReconnect = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	conn := s.conn
	s.conn = nil
	s.open = false
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

// Open reports whether the socket is currently open.
func (s *session) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// LastError returns a human-readable description of the most recent socket
// failure, or empty if the current connection is healthy.
func (s *session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func joinEndpoint(endpoint, path string) string {
	for len(endpoint) > 0 && endpoint[len(endpoint)-1] == '/' {
		endpoint = endpoint[:len(endpoint)-1]
	}
	return endpoint + path
}
