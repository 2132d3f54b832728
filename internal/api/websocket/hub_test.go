package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubBroadcastAndStop(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	hub.Broadcast([]byte("update"))
	assert.Equal(t, []byte("update"), <-client.send)

	// Stop terminates Run and closes the remaining clients' send channels.
	hub.Stop()
	_, ok := <-client.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())

	// After Stop, broadcasts are dropped without blocking even once the
	// channel buffer would be full.
	for i := 0; i < 64; i++ {
		hub.Broadcast([]byte("dropped"))
	}
	hub.Stop() // idempotent
}
