package channel

import (
	"encoding/json"
	"sync"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/constants"
)

// Availability is the reachability of the linked worker.
type Availability int

const (
	// AvailabilityUnknown is the initial state and the state after any
	// socket failure or malformed status payload.
	AvailabilityUnknown Availability = iota
	// AvailabilityAvailable means the linked worker answered the server.
	AvailabilityAvailable
	// AvailabilityUnavailable means the linked worker is unreachable.
	AvailabilityUnavailable
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// StatusChannel tracks whether the single linked worker is reachable. The
// optional OnUnavailable hook fires exactly once per transition into
// unavailable, on the read loop, so message handling never overtakes it.
type StatusChannel struct {
	session *session

	// OnUnavailable, if set, is invoked when the worker transitions to
	// unavailable. Must be set before Start.
	OnUnavailable func()
	// OnChange, if set, is invoked after every availability change.
	// Must be set before Start.
	OnChange func(Availability)

	mu           sync.Mutex
	availability Availability
}

// NewStatusChannel creates a channel watching the linked worker's status.
// Call Start to begin connecting and Close to tear it down.
func NewStatusChannel(cfg Config) *StatusChannel {
	c := &StatusChannel{}
	c.session = newSession(cfg, constants.WorkerStatusSocketPath, c.handleFrame)
	c.session.onClosed = func(bool) bool {
		// Reachability is only meaningful while the channel is live.
		c.setAvailability(AvailabilityUnknown)
		return false
	}
	return c
}

// Start subscribes to the identity gate and connects if signed in.
func (c *StatusChannel) Start() {
	c.session.Start()
}

// Close permanently stops the channel. Idempotent.
func (c *StatusChannel) Close() {
	c.session.Close()
}

// Availability returns the current tri-state reachability.
func (c *StatusChannel) Availability() Availability {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availability
}

// Open reports whether the underlying socket is open.
func (c *StatusChannel) Open() bool {
	return c.session.Open()
}

// LastError returns the most recent socket failure description.
func (c *StatusChannel) LastError() string {
	return c.session.LastError()
}

func (c *StatusChannel) handleFrame(frame *api.Frame) {
	if frame.Type != api.FrameTypeWorkerStatus {
		return
	}

	next := AvailabilityUnknown
	var payload api.WorkerStatusPayload
	if len(frame.Payload) > 0 && json.Unmarshal(frame.Payload, &payload) == nil && payload.Connected != nil {
		if *payload.Connected {
			next = AvailabilityAvailable
		} else {
			next = AvailabilityUnavailable
		}
	}

	c.setAvailability(next)
}

func (c *StatusChannel) setAvailability(next Availability) {
	c.mu.Lock()
	prev := c.availability
	c.availability = next
	c.mu.Unlock()

	if prev == next {
		return
	}
	if next == AvailabilityUnavailable && c.OnUnavailable != nil {
		c.OnUnavailable()
	}
	if c.OnChange != nil {
		c.OnChange(next)
	}
}
