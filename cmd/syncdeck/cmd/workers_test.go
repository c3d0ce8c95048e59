package cmd

import (
	"testing"

	"github.com/syncdeck/syncdeck/internal/channel"
	"github.com/syncdeck/syncdeck/internal/config"
	"github.com/syncdeck/syncdeck/internal/testutil"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWorkerRow(t *testing.T) {
	color.NoColor = true

	w := testutil.NewWorkerBuilder().
		WithClientID("w1").
		WithHostname("deck-01").
		ClaimedBy("user@example.com").
		WithLastPingResponse("2026-08-24T10:00:00Z").
		Build()

	row := formatWorkerRow(w)
	assert.Equal(t, []string{"w1", "deck-01", "yes", "user@example.com", "2026-08-24T10:00:00Z"}, row)
}

func TestFormatWorkerRowUnclaimed(t *testing.T) {
	color.NoColor = true

	row := formatWorkerRow(testutil.NewWorkerBuilder().WithClientID("w2").Build())
	assert.Equal(t, []string{"w2", "-", "no", "-", "-"}, row)
}

func TestFormatAvailability(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "available", formatAvailability(channel.AvailabilityAvailable))
	assert.Equal(t, "unavailable", formatAvailability(channel.AvailabilityUnavailable))
	assert.Equal(t, "unknown", formatAvailability(channel.AvailabilityUnknown))
}

func TestBuildChannelConfigRequiresAccount(t *testing.T) {
	_, err := buildChannelConfig(&config.Config{APIEndpoint: "https://api.example.com"})
	assert.Error(t, err)
}

func TestBuildChannelConfigSeedsGate(t *testing.T) {
	cfg, err := buildChannelConfig(&config.Config{
		APIEndpoint:       "https://api.example.com",
		AccountEmail:      "user@example.com",
		WebSocketEndpoint: "wss://api.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", cfg.Gate.Identity())
	assert.NotNil(t, cfg.Broker)
	assert.Equal(t, "wss://api.example.com", cfg.Endpoint)
}
