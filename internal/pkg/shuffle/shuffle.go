// Package shuffle implements the deterministic catalog ordering. Every
// visitor session sees its own stable ordering of the plan list; the
// ordering rotates once per day and whenever the result set size or the
// active filters change.
package shuffle

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/blake2s"
)

// DayToken returns the date component of the seed. Orderings rotate at
// midnight UTC.
func DayToken(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// SeedString combines everything that must keep the ordering stable: the
// visitor's session token, the day, the result-set size, and the raw
// query string of the active filters.
func SeedString(sessionToken, dayToken string, count int, queryString string) string {
	return fmt.Sprintf("%s:%s|count:%d|%s", sessionToken, dayToken, count, queryString)
}

// seedPRNG hashes the seed string down to 128 bits and feeds it to a PCG
// generator. Same seed string, same permutation, on every box.
func seedPRNG(seed string) *rand.Rand {
	digest := blake2s.Sum256([]byte(seed))
	hi := binary.BigEndian.Uint64(digest[0:8])
	lo := binary.BigEndian.Uint64(digest[8:16])
	return rand.New(rand.NewPCG(hi, lo))
}

// Permutation returns the shuffled index order for n items under the
// given seed string.
func Permutation(seed string, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := seedPRNG(seed)
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

// IDs applies the seeded permutation to a slice of database IDs.
func IDs(seed string, ids []uint) []uint {
	perm := Permutation(seed, len(ids))
	out := make([]uint, len(ids))
	for i, idx := range perm {
		out[i] = ids[idx]
	}
	return out
}

// Dedupe removes duplicate IDs keeping the first occurrence, preserving
// order.
func Dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RemoveFeatured drops the rail IDs from the shuffled list. The featured
// rail is rendered separately above the grid on the first unfiltered
// page, so its plans must not repeat inside the grid; later grid slots
// backfill naturally from the remaining IDs.
func RemoveFeatured(shuffled, featured []uint) []uint {
	if len(featured) == 0 {
		return shuffled
	}
	isFeatured := make(map[uint]struct{}, len(featured))
	for _, id := range featured {
		isFeatured[id] = struct{}{}
	}
	out := make([]uint, 0, len(shuffled))
	for _, id := range shuffled {
		if _, ok := isFeatured[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// FirstPage assembles the first catalog page body: featured IDs removed,
// freed slots backfilled from the next shuffled IDs.
func FirstPage(shuffled, featured []uint, pageSize int) []uint {
	return Page(RemoveFeatured(shuffled, featured), 1, pageSize)
}

// Page slices one page out of the shuffled ID list. Page numbers start
// at 1; out-of-range pages return an empty slice.
func Page(shuffled []uint, page, pageSize int) []uint {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(shuffled) {
		return nil
	}
	end := start + pageSize
	if end > len(shuffled) {
		end = len(shuffled)
	}
	return shuffled[start:end]
}
