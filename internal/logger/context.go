package logger

import (
	"context"
	"time"
)

// GetDeadlineInfo returns slog args describing the context deadline, if any.
// Useful when logging before outbound calls so hung requests can be traced.
func GetDeadlineInfo(ctx context.Context) []any {
	deadline, ok := ctx.Deadline()
	if !ok {
		return []any{"hasDeadline", false}
	}
	return []any{
		"hasDeadline", true,
		"deadline", deadline.UTC().Format(time.RFC3339),
		"remaining", time.Until(deadline).Round(time.Millisecond).String(),
	}
}
