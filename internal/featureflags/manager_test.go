package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabledBooleanValues(t *testing.T) {
	m := NewManager("live_feed=on,image_thumbnails=off,a=true,b=false,c=1,d=0")

	assert.True(t, m.Enabled("live_feed", 1))
	assert.True(t, m.Enabled("a", 1))
	assert.True(t, m.Enabled("c", 1))
	assert.False(t, m.Enabled("image_thumbnails", 1))
	assert.False(t, m.Enabled("b", 1))
	assert.False(t, m.Enabled("d", 1))
}

func TestEnabledPercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}

	assert.False(t, m.Enabled("canary", 0), "anonymous visitors stay out of partial rollouts")
}

func TestUnknownAndMalformedFlags(t *testing.T) {
	m := NewManager(" junk ,live_feed=on, canary = 20% ,broken=maybe,over=150%")

	assert.True(t, m.Enabled("live_feed", 1))
	assert.False(t, m.Enabled("not_configured", 1))
	assert.False(t, m.Enabled("broken", 1))
	assert.False(t, m.Enabled("over", 1))

	snap := m.Snapshot(123)
	assert.Len(t, snap, 2)
	assert.Contains(t, snap, "live_feed")
	assert.Contains(t, snap, "canary")
}

func TestNilManagerIsDisabled(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled("live_feed", 1))
}
