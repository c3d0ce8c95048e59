package constants

import "time"

// SocketTokenPath is the API path that issues short-lived WebSocket tokens.
const SocketTokenPath = "/api/v1/ws/token"

// WorkerListSocketPath is the WebSocket path streaming the full worker roster.
const WorkerListSocketPath = "/ws/ui/workers/"

// WorkerStatusSocketPath is the WebSocket path streaming linked-worker reachability.
const WorkerStatusSocketPath = "/ws/ui/status/"

// DefaultReconnectDelay is the fixed delay before a dropped channel retries.
const DefaultReconnectDelay = 3 * time.Second
