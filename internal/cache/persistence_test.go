package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"dexrouter/internal/types"
)

func TestExportImport_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(types.PoolDescriptor{
		Address:  testAddr(t, "0x0000000000000000000000000000000000000010"),
		Token0:   testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token1:   testAddr(t, "0x0000000000000000000000000000000000000002"),
		Reserve0: testAmount(100), Reserve1: testAmount(200),
		FeeBps: 30, DexName: "Uniswap V2",
	})
	store.Insert(types.PoolDescriptor{
		Address:  testAddr(t, "0x0000000000000000000000000000000000000011"),
		Token0:   testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token1:   testAddr(t, "0x0000000000000000000000000000000000000003"),
		Reserve0: testAmount(300), Reserve1: testAmount(400),
		FeeBps: 30, DexName: "SushiSwap",
	})

	path := filepath.Join(t.TempDir(), "nested", "pools.json")
	assert.NoError(t, Export(store, path))

	restored := NewMemoryStore()
	n, err := Import(restored, path)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, store.Stats().TotalPools, restored.Stats().TotalPools)

	for _, original := range store.All() {
		got, ok := restored.Get(original.Address)
		assert.True(t, ok)
		assert.Equal(t, original.Reserve0.String(), got.Reserve0.String())
		assert.Equal(t, original.DexName, got.DexName)
	}
}

func TestImport_AdditiveNotClearing(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000099"),
		Token0:  testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token1:  testAddr(t, "0x0000000000000000000000000000000000000002"),
	})

	source := NewMemoryStore()
	source.Insert(types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000010"),
		Token0:  testAddr(t, "0x0000000000000000000000000000000000000003"),
		Token1:  testAddr(t, "0x0000000000000000000000000000000000000004"),
	})
	path := filepath.Join(t.TempDir(), "pools.json")
	assert.NoError(t, Export(source, path))

	_, err := Import(store, path)
	assert.NoError(t, err)

	assert.Equal(t, 2, store.Stats().TotalPools)
}

func TestImport_MissingFileFails(t *testing.T) {
	store := NewMemoryStore()
	_, err := Import(store, filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
	assert.False(t, TryAutoImport(store, filepath.Join(t.TempDir(), "does-not-exist.json")))
}
