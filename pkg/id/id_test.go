package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	prev := ""
	for i := 0; i < 100; i++ {
		s := NewAt(ts)
		assert.Len(t, s, 26)
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
		if prev != "" {
			assert.Greater(t, s, prev)
		}
		prev = s
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	got, ok := Time(NewAt(ts))
	require.True(t, ok)
	assert.True(t, got.Equal(ts))

	_, ok = Time("lk2j3h4k5j6h")
	assert.False(t, ok)
}
