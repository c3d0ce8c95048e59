package channel

import (
	"sync"
	"testing"
	"time"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures warning messages for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	warnings []string
}

func (n *recordingNotifier) Warnf(format string, _ ...any) {
	n.mu.Lock()
	n.warnings = append(n.warnings, format)
	n.mu.Unlock()
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.warnings)
}

func TestWorkersChannelReplacesRosterWholesale(t *testing.T) {
	server := newSocketServer(t)
	issuer := &fakeIssuer{token: "abc"}

	c := NewWorkersChannel(testConfig(server, issuer, signedInGate()), nil)
	defer c.Close()
	c.Start()
	conn := server.waitConn(t)

	sendFrame(t, conn, `{"type":"workers_update","payload":{"workers":[`+
		`{"client_id":"w1","claimed":true},`+
		`{"client_id":"w2","claimed":false,"hostname":"deck-02"}]}}`)

	require.Eventually(t, func() bool {
		return len(c.Workers()) == 2
	}, time.Second, 5*time.Millisecond)

	workers := c.Workers()
	assert.Equal(t, "w1", workers[0].ClientID)
	assert.True(t, workers[0].Claimed)
	assert.Equal(t, "w2", workers[1].ClientID)
	require.NotNil(t, workers[1].Hostname)
	assert.Equal(t, "deck-02", *workers[1].Hostname)

	// The next update fully replaces the roster; nothing from the previous
	// frame survives.
	sendFrame(t, conn, `{"type":"workers_update","payload":{"workers":[{"client_id":"w3","claimed":false}]}}`)

	require.Eventually(t, func() bool {
		workers := c.Workers()
		return len(workers) == 1 && workers[0].ClientID == "w3"
	}, time.Second, 5*time.Millisecond)
}

func TestWorkersChannelMalformedPayloadClearsRoster(t *testing.T) {
	server := newSocketServer(t)
	issuer := &fakeIssuer{token: "abc"}

	c := NewWorkersChannel(testConfig(server, issuer, signedInGate()), nil)
	defer c.Close()
	c.Start()
	conn := server.waitConn(t)

	sendFrame(t, conn, `{"type":"workers_update","payload":{"workers":[{"client_id":"w1","claimed":true}]}}`)
	require.Eventually(t, func() bool {
		return len(c.Workers()) == 1
	}, time.Second, 5*time.Millisecond)

	// Missing payload must clear, not preserve, the previous roster.
	sendFrame(t, conn, `{"type":"workers_update"}`)
	require.Eventually(t, func() bool {
		return len(c.Workers()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestWorkersChannelOnUpdateReceivesSnapshot(t *testing.T) {
	server := newSocketServer(t)
	issuer := &fakeIssuer{token: "abc"}

	updates := make(chan []api.WorkerSnapshot, 4)
	c := NewWorkersChannel(testConfig(server, issuer, signedInGate()), nil)
	c.OnUpdate = func(workers []api.WorkerSnapshot) {
		updates <- workers
	}
	defer c.Close()
	c.Start()
	conn := server.waitConn(t)

	want := testutil.NewWorkerBuilder().
		WithClientID("w1").
		ClaimedBy(testIdentity).
		Build()
	sendFrame(t, conn, `{"type":"workers_update","payload":{"workers":[`+
		`{"client_id":"w1","claimed":true,"linked_user":"user@example.com"}]}}`)

	select {
	case got := <-updates:
		require.Len(t, got, 1)
		assert.Equal(t, want, got[0])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for an update callback")
	}
}

func TestWorkersChannelReloadOnCloseAfterOpen(t *testing.T) {
	server := newSocketServer(t)
	issuer := &fakeIssuer{token: "abc"}

	notifier := &recordingNotifier{}
	reloaded := make(chan struct{}, 4)
	policy := &ReloadPolicy{
		Notifier: notifier,
		Reload:   func() { reloaded <- struct{}{} },
	}

	c := NewWorkersChannel(testConfig(server, issuer, signedInGate()), policy)
	defer c.Close()
	c.Start()

	conn := server.waitConn(t)
	require.Eventually(t, c.Open, time.Second, 5*time.Millisecond)

	_ = conn.Close()

	select {
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the reload")
	}
	assert.Equal(t, 1, notifier.count(), "the warning is shown exactly once")

	// The reload path replaces reconnection entirely.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, issuer.callCount())
	assert.Equal(t, 1, server.connCount())
	assert.Empty(t, reloaded)
}

func TestWorkersChannelNoReloadBeforeEverOpened(t *testing.T) {
	// Dial failures never count as "was open": the channel keeps retrying
	// instead of reloading.
	server := newSocketServer(t)
	server.ts.Close()
	issuer := &fakeIssuer{token: "abc"}

	notifier := &recordingNotifier{}
	policy := &ReloadPolicy{
		Notifier: notifier,
		Reload:   func() { t.Error("reload must not fire before the channel ever opened") },
	}

	c := NewWorkersChannel(testConfig(server, issuer, signedInGate()), policy)
	defer c.Close()
	c.Start()

	require.Eventually(t, func() bool {
		return issuer.callCount() >= 2
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, notifier.count())
}
