package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexrouter/internal/types"
)

type fakeStore struct {
	pools []types.PoolDescriptor
}

func (f *fakeStore) Insert(pool types.PoolDescriptor) {
	f.pools = append(f.pools, pool)
}

func TestSeedMajorPairs_SeedsExpectedCount(t *testing.T) {
	store := &fakeStore{}
	seeded := SeedMajorPairs(store)

	assert.Len(t, seeded, len(demoExchanges)*len(demoMajorPairs))
	assert.Len(t, store.pools, len(seeded))
}

func TestSeedMajorPairs_NoZeroReservePools(t *testing.T) {
	store := &fakeStore{}
	seeded := SeedMajorPairs(store)

	for _, p := range seeded {
		require.False(t, p.HasZeroReserve(), "pool %s has a zero reserve", p.Address.Hex())
	}
}

func TestSeedMajorPairs_AddressesAreDistinct(t *testing.T) {
	store := &fakeStore{}
	seeded := SeedMajorPairs(store)

	seen := make(map[types.Address]bool)
	for _, p := range seeded {
		require.False(t, seen[p.Address], "duplicate pool address %s", p.Address.Hex())
		seen[p.Address] = true
	}
}
