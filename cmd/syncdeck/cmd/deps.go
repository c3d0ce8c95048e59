package cmd

import (
	"fmt"
	"log/slog"

	"github.com/syncdeck/syncdeck/internal/auth"
	"github.com/syncdeck/syncdeck/internal/channel"
	"github.com/syncdeck/syncdeck/internal/client"
	"github.com/syncdeck/syncdeck/internal/config"
	"github.com/syncdeck/syncdeck/internal/constants"
)

// buildChannelConfig assembles the collaborators every presence channel
// needs: the identity gate seeded from the configured account, and a token
// broker backed by the HTTP client.
func buildChannelConfig(cfg *config.Config) (channel.Config, error) {
	if cfg.AccountEmail == "" {
		return channel.Config{}, fmt.Errorf(
			"no account configured; run '%s configure' with --email first", constants.ProjectName)
	}

	gate := auth.NewSessionStore()
	gate.Set(cfg.AccountEmail)

	return channel.Config{
		Gate:           gate,
		Broker:         auth.NewTokenBroker(client.New(cfg, slog.Default()), slog.Default()),
		Endpoint:       cfg.WebSocketEndpoint,
		ReconnectDelay: cfg.ReconnectDelay,
	}, nil
}
