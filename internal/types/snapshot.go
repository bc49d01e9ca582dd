package types

// CacheSnapshot is the on-disk persistence schema for the pool cache:
// a flat list of descriptors plus the export timestamp. Round-trip
// law: import(export(S)) restores the same set of descriptors,
// order not significant.
type CacheSnapshot struct {
	Pools     []PoolDescriptor `json:"pools"`
	Timestamp uint64           `json:"timestamp"`
}
