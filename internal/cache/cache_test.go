package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetMiss(t *testing.T) {
	m := NewMemory()

	value, ok := m.Get(context.Background(), "absent")
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "key", []byte("value"), time.Minute)

	value, ok := m.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), value)
}

func TestMemoryExpiry(t *testing.T) {
	now := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Set(ctx, "key", []byte("value"), 30*time.Second)

	now = now.Add(29 * time.Second)
	_, ok := m.Get(ctx, "key")
	assert.True(t, ok, "entry should survive until its TTL elapses")

	now = now.Add(2 * time.Second)
	_, ok = m.Get(ctx, "key")
	assert.False(t, ok, "entry should expire after its TTL")

	// Expired entries are deleted on read.
	assert.Empty(t, m.entries)
}

func TestMemoryOverwriteResetsExpiry(t *testing.T) {
	now := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Set(ctx, "key", []byte("old"), 10*time.Second)

	now = now.Add(8 * time.Second)
	m.Set(ctx, "key", []byte("new"), 10*time.Second)

	now = now.Add(8 * time.Second)
	value, ok := m.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), value)
}
