// Package testutil provides shared testing utilities and helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/constants"
)

// WorkerBuilder provides a fluent interface for building test worker snapshots.
type WorkerBuilder struct {
	worker api.WorkerSnapshot
}

// NewWorkerBuilder creates a new WorkerBuilder with sensible defaults.
func NewWorkerBuilder() *WorkerBuilder {
	return &WorkerBuilder{
		worker: api.WorkerSnapshot{
			ClientID: "worker-test-123",
			Claimed:  false,
		},
	}
}

// WithClientID sets the worker's client ID.
func (b *WorkerBuilder) WithClientID(id string) *WorkerBuilder {
	b.worker.ClientID = id
	return b
}

// WithHostname sets the worker's hostname.
func (b *WorkerBuilder) WithHostname(hostname string) *WorkerBuilder {
	b.worker.Hostname = &hostname
	return b
}

// ClaimedBy marks the worker as claimed by the given account.
func (b *WorkerBuilder) ClaimedBy(email string) *WorkerBuilder {
	b.worker.Claimed = true
	b.worker.LinkedUser = &email
	return b
}

// WithLastPingResponse sets the worker's last ping response timestamp.
func (b *WorkerBuilder) WithLastPingResponse(ts string) *WorkerBuilder {
	b.worker.LastPingResponse = &ts
	return b
}

// Build returns the constructed WorkerSnapshot.
func (b *WorkerBuilder) Build() api.WorkerSnapshot {
	return b.worker
}

// TestContext creates a test context with a reasonable timeout.
// Note: The cancel function is intentionally not returned since test contexts
// are expected to be short-lived and will be cleaned up when the test completes.
func TestContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), constants.TestContextTimeout)
	_ = cancel // context will timeout automatically
	return ctx
}

// TestLogger creates a logger suitable for testing (outputs to stderr).
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}))
}

// SilentLogger creates a logger that discards all output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
