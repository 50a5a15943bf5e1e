package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentKey(t *testing.T) {
	assert.Equal(t, "fragment:index_page", FragmentKey("index_page"))
	assert.Equal(t, "fragment:index_page:2", FragmentKey("index_page", "2"))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2020, 9, 20, 9, 0, 0, 0, time.UTC)

	m := NewMemory()
	m.Now = func() time.Time { return now }

	_, ok, err := m.Get(ctx, "index_page")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "index_page", []byte("TEXT"), 20*time.Second))

	now = now.Add(19 * time.Second)
	got, ok, err := m.Get(ctx, "index_page")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("TEXT"), got)

	now = now.Add(time.Second)
	_, ok, err = m.Get(ctx, "index_page")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryLastWriterWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", []byte("first"), time.Minute))
	require.NoError(t, m.Set(ctx, "k", []byte("second"), time.Minute))

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(got))
}

func TestMemorySetCopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'X'

	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	m := NewMemory()
	m.Now = func() time.Time { return now }

	for i := 0; i < sweepThreshold; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Second))
	}
	now = now.Add(2 * time.Second)
	require.NoError(t, m.Set(ctx, "fresh", []byte("v"), time.Second))

	assert.Equal(t, 1, m.Len())
}

func TestBadger(t *testing.T) {
	ctx := context.Background()

	b, err := OpenBadger("")
	require.NoError(t, err)
	defer b.Close()

	_, ok, err := b.Get(ctx, "index_page")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "index_page", []byte("TEXT"), time.Second))

	got, ok, err := b.Get(ctx, "index_page")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "TEXT", string(got))

	// Badger expiry has a one second resolution.
	time.Sleep(2100 * time.Millisecond)

	_, ok, err = b.Get(ctx, "index_page")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, b.Close())

	b, err = OpenBadger(dir)
	require.NoError(t, err)
	defer b.Close()

	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(got))
}
