// Package api defines the wire types exchanged between syncdeck clients and
// the presence service: worker snapshots, WebSocket frames, and token responses.
package api

import "encoding/json"

// WorkerSnapshot describes one known sync worker as reported by the server.
// The server always sends the complete set, so snapshots are replaced
// wholesale rather than merged.
type WorkerSnapshot struct {
	ClientID         string  `json:"client_id"`
	Claimed          bool    `json:"claimed"`
	LinkedUser       *string `json:"linked_user,omitempty"`
	Hostname         *string `json:"hostname,omitempty"`
	LastPingResponse *string `json:"last_ping_response,omitempty"`
}

// FrameType discriminates inbound WebSocket frames.
type FrameType string

const (
	// FrameTypeWorkersUpdate carries the full worker roster.
	FrameTypeWorkersUpdate FrameType = "workers_update"
	// FrameTypeWorkerStatus carries the linked worker's reachability.
	FrameTypeWorkerStatus FrameType = "worker_status"
)

// Frame is the envelope of every inbound WebSocket message. Payload decoding
// is deferred so unknown frame types can be skipped without touching their body.
type Frame struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WorkersUpdatePayload is the payload of a workers_update frame.
type WorkersUpdatePayload struct {
	Workers []WorkerSnapshot `json:"workers"`
}

// WorkerStatusPayload is the payload of a worker_status frame. Connected is a
// pointer so an absent or non-boolean field decodes to nil rather than false.
type WorkerStatusPayload struct {
	Connected *bool `json:"connected"`
}

// SocketTokenResponse is returned by the token-issuing endpoint.
type SocketTokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
