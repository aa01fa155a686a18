package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dashpos/internal/domain"
)

func TestBroadcastRouting(t *testing.T) {
	hub := NewHub(zap.NewNop())
	dash := hub.register("biz-1", ChannelDashboard)
	kds := hub.register("biz-1", ChannelKDS)
	other := hub.register("biz-2", ChannelDashboard)

	hub.Broadcast(domain.Event{Event: domain.EventMenuUpdate, BusinessID: "biz-1"})
	hub.Broadcast(domain.Event{Event: domain.EventKDSUpdate, BusinessID: "biz-1"})

	// Dashboard sees everything for its business.
	require.Len(t, dash.send, 2)
	// KDS screens only see kitchen events.
	require.Len(t, kds.send, 1)
	assert.Equal(t, domain.EventKDSUpdate, (<-kds.send).Event)
	// Other businesses see nothing.
	assert.Empty(t, other.send)
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.register("biz-1", ChannelDashboard)

	for i := 0; i < sendBuffer+1; i++ {
		hub.Broadcast(domain.Event{Event: domain.EventMenuUpdate, BusinessID: "biz-1"})
	}

	assert.Zero(t, hub.ClientCount("biz-1"))
	// The channel was closed on unregister; drain must terminate.
	n := 0
	for range c.send {
		n++
	}
	assert.Equal(t, sendBuffer, n)
}

func TestUnregisterTwice(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.register("biz-1", ChannelDashboard)
	hub.unregister(c)
	hub.unregister(c) // must not panic on double close
	assert.Zero(t, hub.ClientCount("biz-1"))
}
