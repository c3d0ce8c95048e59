package auth

import (
	"context"
	"log/slog"

	"github.com/syncdeck/syncdeck/internal/api"

	"golang.org/x/sync/singleflight"
)

// TokenIssuer performs the outbound credentialed request for a socket token.
// Satisfied by client.Client.
type TokenIssuer interface {
	IssueSocketToken(ctx context.Context) (*api.SocketTokenResponse, error)
}

// TokenBroker acquires short-lived WebSocket tokens. Concurrent Acquire calls
// share a single in-flight request; there is no caching beyond that window
// because tokens are single-purpose and a fresh connection wants a fresh token.
type TokenBroker struct {
	issuer TokenIssuer
	logger *slog.Logger
	group  singleflight.Group
}

// NewTokenBroker creates a broker around the given issuer.
func NewTokenBroker(issuer TokenIssuer, log *slog.Logger) *TokenBroker {
	if log == nil {
		log = slog.Default()
	}
	return &TokenBroker{
		issuer: issuer,
		logger: log,
	}
}

// Acquire returns a WebSocket token, or empty string on any failure. Failure
// is not an error condition for callers: it usually means the session is still
// bootstrapping, and the caller's gate subscription will retry later.
func (b *TokenBroker) Acquire(ctx context.Context) string {
	// Every caller that arrives while a request is in flight joins it and
	// receives the same result. The in-flight slot is released whether the
	// request succeeds or fails, so a failure never wedges future callers.
	v, err, _ := b.group.Do("socket-token", func() (any, error) {
		resp, issueErr := b.issuer.IssueSocketToken(ctx)
		if issueErr != nil {
			return "", issueErr
		}
		return resp.Token, nil
	})
	if err != nil {
		b.logger.Debug("socket token acquisition failed", "error", err)
		return ""
	}
	return v.(string)
}
