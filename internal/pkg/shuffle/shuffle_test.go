package shuffle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeIDs(n int) []uint {
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return ids
}

func TestPermutationIsDeterministic(t *testing.T) {
	seed := SeedString("session-a", "2026-08-28", 50, "bedrooms=3")

	first := IDs(seed, makeIDs(50))
	second := IDs(seed, makeIDs(50))
	assert.Equal(t, first, second)
}

func TestPermutationIsComplete(t *testing.T) {
	seed := SeedString("session-a", "2026-08-28", 100, "")
	shuffled := IDs(seed, makeIDs(100))

	seen := make(map[uint]bool, len(shuffled))
	for _, id := range shuffled {
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestDifferentSessionsGetDifferentOrder(t *testing.T) {
	ids := makeIDs(50)
	a := IDs(SeedString("session-a", "2026-08-28", 50, ""), ids)
	b := IDs(SeedString("session-b", "2026-08-28", 50, ""), ids)
	assert.NotEqual(t, a, b)
}

func TestOrderRotatesDaily(t *testing.T) {
	ids := makeIDs(50)
	today := IDs(SeedString("session-a", "2026-08-28", 50, ""), ids)
	tomorrow := IDs(SeedString("session-a", "2026-08-29", 50, ""), ids)
	assert.NotEqual(t, today, tomorrow)
}

func TestOrderChangesWithFilters(t *testing.T) {
	ids := makeIDs(50)
	plain := IDs(SeedString("session-a", "2026-08-28", 50, ""), ids)
	filtered := IDs(SeedString("session-a", "2026-08-28", 50, "bedrooms=3"), ids)
	assert.NotEqual(t, plain, filtered)
}

func TestDayToken(t *testing.T) {
	ts := time.Date(2026, 8, 28, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	// 23:30 CEST is 21:30 UTC, still the 28th
	assert.Equal(t, "2026-08-28", DayToken(ts))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, Dedupe([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, Dedupe(nil))
}

func TestRemoveFeaturedBackfills(t *testing.T) {
	shuffled := []uint{5, 1, 9, 2, 7, 3}
	featured := []uint{1, 7}

	page := FirstPage(shuffled, featured, 3)
	require.Len(t, page, 3)
	assert.Equal(t, []uint{5, 9, 2}, page)

	// no featured rail, nothing removed
	assert.Equal(t, []uint{5, 1, 9}, FirstPage(shuffled, nil, 3))
}

func TestPageSlicing(t *testing.T) {
	ids := []uint{1, 2, 3, 4, 5}

	assert.Equal(t, []uint{1, 2}, Page(ids, 1, 2))
	assert.Equal(t, []uint{3, 4}, Page(ids, 2, 2))
	assert.Equal(t, []uint{5}, Page(ids, 3, 2))
	assert.Empty(t, Page(ids, 4, 2))
	assert.Empty(t, Page(ids, 0, 2))
}
