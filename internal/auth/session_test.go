package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStoreStartsSignedOut(t *testing.T) {
	s := NewSessionStore()
	assert.Empty(t, s.Identity())
}

func TestSessionStoreNotifiesOnChange(t *testing.T) {
	s := NewSessionStore()

	var seen []string
	cancel := s.Subscribe(func(identity string) {
		seen = append(seen, identity)
	})
	defer cancel()

	s.Set("user@example.com")
	s.Set("user@example.com") // unchanged, no notification
	s.Clear()
	s.Clear() // already signed out, no notification

	assert.Equal(t, []string{"user@example.com", ""}, seen)
	assert.Empty(t, s.Identity())
}

func TestSessionStoreUnsubscribeStopsNotifications(t *testing.T) {
	s := NewSessionStore()

	calls := 0
	cancel := s.Subscribe(func(string) { calls++ })

	s.Set("user@example.com")
	cancel()
	cancel() // safe to call again
	s.Clear()

	assert.Equal(t, 1, calls)
}

func TestSessionStoreListenerMayReadBack(t *testing.T) {
	s := NewSessionStore()

	var observed string
	cancel := s.Subscribe(func(string) {
		// Listeners run outside the store lock, so calling back in is fine.
		observed = s.Identity()
	})
	defer cancel()

	s.Set("user@example.com")
	assert.Equal(t, "user@example.com", observed)
}
