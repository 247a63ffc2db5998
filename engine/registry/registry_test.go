package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	r := NewNameRegistry()
	a := r.Register("albedo")
	b := r.Register("roughness")
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, r.Register("albedo"))
	assert.Equal(t, b, r.Register("roughness"))
	assert.Equal(t, 2, r.Count())
}

func TestRegisterDistinctNamesGetDistinctSlots(t *testing.T) {
	r := NewNameRegistry()
	seen := make(map[int]string)
	for _, name := range []string{"glow", "albedo", "normal_map", "tint", "albedo", "glow"} {
		slot := r.Register(name)
		if prev, ok := seen[slot]; ok {
			assert.Equal(t, prev, name, "slot %d reused for a different name", slot)
		}
		seen[slot] = name
	}
	assert.Equal(t, 4, r.Count())
	assert.Equal(t, []string{"glow", "albedo", "normal_map", "tint"}, r.Names())
}

func TestSlotAndNameLookups(t *testing.T) {
	r := NewNameRegistry(WithNames("albedo", "tint", "albedo"))
	require.Equal(t, 2, r.Count())

	slot, ok := r.Slot("tint")
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	slot, ok = r.Slot("missing")
	assert.False(t, ok)
	assert.Equal(t, -1, slot)

	name, ok := r.Name(0)
	require.True(t, ok)
	assert.Equal(t, "albedo", name)

	_, ok = r.Name(2)
	assert.False(t, ok)
	_, ok = r.Name(-1)
	assert.False(t, ok)
}

func TestConcurrentRegistrationAgrees(t *testing.T) {
	r := NewNameRegistry()
	names := make([]string, 64)
	for i := range names {
		names[i] = fmt.Sprintf("param_%d", i%16)
	}

	const workers = 8
	results := make([][]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			slots := make([]int, len(names))
			for i := range names {
				// walk in a different order per worker
				idx := (i + w*7) % len(names)
				slots[idx] = r.Register(names[idx])
			}
			results[w] = slots
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 16, r.Count())
	for w := 1; w < workers; w++ {
		assert.Equal(t, results[0], results[w])
	}
}
