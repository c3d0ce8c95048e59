package channel

import (
	"encoding/json"
	"sync"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/constants"
)

// ReloadPolicy makes a dropped worker-list channel force a full view reload
// instead of silently reconnecting. Used where rendering a stale roster
// without a live channel is unsafe. The warning and reload fire at most once.
type ReloadPolicy struct {
	// Notifier surfaces the one-time warning before reloading.
	Notifier Notifier
	// Reload performs the reload itself (page refresh, process restart, ...).
	Reload func()
}

// WorkersChannel tracks the full collection of known workers and their claim
// state. Every workers_update frame replaces the collection wholesale; the
// server always sends the complete set, so there is no client-side merging.
type WorkersChannel struct {
	session *session
	reload  *ReloadPolicy

	// OnUpdate, if set, is invoked with a snapshot after every replacement.
	// Must be set before Start.
	OnUpdate func([]api.WorkerSnapshot)

	mu       sync.Mutex
	workers  []api.WorkerSnapshot
	reloaded bool
}

// NewWorkersChannel creates a channel watching the worker roster. A nil
// reload policy keeps the standard reconnect behavior. Call Start to begin
// connecting and Close to tear it down.
func NewWorkersChannel(cfg Config, reload *ReloadPolicy) *WorkersChannel {
	c := &WorkersChannel{reload: reload}
	c.session = newSession(cfg, constants.WorkerListSocketPath, c.handleFrame)
	c.session.onClosed = c.handleClosed
	return c
}

// Start subscribes to the identity gate and connects if signed in.
func (c *WorkersChannel) Start() {
	c.session.Start()
}

// Close permanently stops the channel. Idempotent.
func (c *WorkersChannel) Close() {
	c.session.Close()
}

// Workers returns a copy of the current worker collection.
func (c *WorkersChannel) Workers() []api.WorkerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.WorkerSnapshot, len(c.workers))
	copy(out, c.workers)
	return out
}

// Open reports whether the underlying socket is open.
func (c *WorkersChannel) Open() bool {
	return c.session.Open()
}

// LastError returns the most recent socket failure description.
func (c *WorkersChannel) LastError() string {
	return c.session.LastError()
}

func (c *WorkersChannel) handleFrame(frame *api.Frame) {
	if frame.Type != api.FrameTypeWorkersUpdate {
		return
	}

	// A malformed or absent payload clears the roster rather than leaving the
	// previous list on display next to partial new data.
	workers := []api.WorkerSnapshot{}
	var payload api.WorkersUpdatePayload
	if len(frame.Payload) > 0 && json.Unmarshal(frame.Payload, &payload) == nil && payload.Workers != nil {
		workers = payload.Workers
	}

	c.mu.Lock()
	c.workers = workers
	c.mu.Unlock()

	if c.OnUpdate != nil {
		c.OnUpdate(c.Workers())
	}
}

// handleClosed applies the reload-on-close policy: once the channel has been
// open, a later drop warns the user and reloads instead of reconnecting.
func (c *WorkersChannel) handleClosed(everOpened bool) bool {
	if c.reload == nil || !everOpened {
		return false
	}

	c.mu.Lock()
	if c.reloaded {
		c.mu.Unlock()
		return true
	}
	c.reloaded = true
	c.mu.Unlock()

	if c.reload.Notifier != nil {
		c.reload.Notifier.Warnf("Lost connection to the worker roster; reloading")
	}
	if c.reload.Reload != nil {
		c.reload.Reload()
	}
	return true
}
