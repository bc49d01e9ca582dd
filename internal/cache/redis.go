package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"dexrouter/internal/types"
)

// RedisStore is an optional second-tier backing store holding each
// PoolDescriptor as a JSON blob plus set-based indexes. It satisfies
// the same Store interface as MemoryStore so it can be used directly
// or composed underneath a TwoLevelCache, reachable via
// CACHE_BACKEND=redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore dials (lazily, go-redis connects on first use) a
// Redis instance at addr.
func NewRedisStore(addr, password string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &RedisStore{client: client, prefix: "dexrouter:"}
}

func (rs *RedisStore) poolKey(addr types.Address) string {
	return fmt.Sprintf("%spool:%s", rs.prefix, addr.Hex())
}

func (rs *RedisStore) allPoolsKey() string { return rs.prefix + "all_pools" }

func (rs *RedisStore) tokenSetKey(token types.Address) string {
	return fmt.Sprintf("%stoken:%s", rs.prefix, token.Hex())
}

// Insert stores pool as JSON and maintains the all-pools and per-token
// index sets in one pipelined write.
func (rs *RedisStore) Insert(pool types.PoolDescriptor) {
	ctx := context.Background()

	data, err := json.Marshal(pool)
	if err != nil {
		log.Printf("cache: redis marshal failed for %s: %v", pool.Address.Hex(), err)
		return
	}

	pipe := rs.client.Pipeline()
	pipe.Set(ctx, rs.poolKey(pool.Address), data, 0)
	pipe.SAdd(ctx, rs.allPoolsKey(), pool.Address.Hex())
	pipe.SAdd(ctx, rs.tokenSetKey(pool.Token0), pool.Address.Hex())
	pipe.SAdd(ctx, rs.tokenSetKey(pool.Token1), pool.Address.Hex())

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("cache: redis insert failed for %s: %v", pool.Address.Hex(), err)
	}
}

// Get fetches and decodes a single pool.
func (rs *RedisStore) Get(address types.Address) (types.PoolDescriptor, bool) {
	data, err := rs.client.Get(context.Background(), rs.poolKey(address)).Result()
	if err != nil {
		return types.PoolDescriptor{}, false
	}
	var pool types.PoolDescriptor
	if err := json.Unmarshal([]byte(data), &pool); err != nil {
		log.Printf("cache: redis unmarshal failed for %s: %v", address.Hex(), err)
		return types.PoolDescriptor{}, false
	}
	return pool, true
}

// All fetches every pool via a pipelined multi-get.
func (rs *RedisStore) All() []types.PoolDescriptor {
	ctx := context.Background()

	addrs, err := rs.client.SMembers(ctx, rs.allPoolsKey()).Result()
	if err != nil || len(addrs) == 0 {
		return nil
	}

	pipe := rs.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(addrs))
	for _, hex := range addrs {
		cmds[hex] = pipe.Get(ctx, rs.prefix+"pool:"+hex)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		log.Printf("cache: redis pipeline exec failed: %v", err)
	}

	out := make([]types.PoolDescriptor, 0, len(addrs))
	for hex, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}
		var pool types.PoolDescriptor
		if err := json.Unmarshal([]byte(data), &pool); err != nil {
			log.Printf("cache: redis unmarshal failed for %s: %v", hex, err)
			continue
		}
		out = append(out, pool)
	}
	return out
}

// WithToken returns every pool indexed under token.
func (rs *RedisStore) WithToken(token types.Address) []types.PoolDescriptor {
	ctx := context.Background()
	addrs, err := rs.client.SMembers(ctx, rs.tokenSetKey(token)).Result()
	if err != nil {
		return nil
	}
	out := make([]types.PoolDescriptor, 0, len(addrs))
	for _, hex := range addrs {
		addr, err := types.ParseAddress(hex)
		if err != nil {
			continue
		}
		if pool, ok := rs.Get(addr); ok {
			out = append(out, pool)
		}
	}
	return out
}

// ForPair intersects the two tokens' index sets using SInter.
func (rs *RedisStore) ForPair(a, b types.Address) []types.PoolDescriptor {
	ctx := context.Background()
	addrs, err := rs.client.SInter(ctx, rs.tokenSetKey(a), rs.tokenSetKey(b)).Result()
	if err != nil {
		return nil
	}
	out := make([]types.PoolDescriptor, 0, len(addrs))
	for _, hex := range addrs {
		addr, err := types.ParseAddress(hex)
		if err != nil {
			continue
		}
		if pool, ok := rs.Get(addr); ok {
			out = append(out, pool)
		}
	}
	return out
}

// Stats scans every pool to compute per-DEX counts; acceptable since
// stats is an operational/diagnostic query, not a hot path.
func (rs *RedisStore) Stats() Stats {
	pools := rs.All()
	counts := make(map[string]int)
	for _, p := range pools {
		counts[p.DexName]++
	}
	return Stats{TotalPools: len(pools), DexCounts: counts}
}

// Clear removes every tracked pool and index set.
func (rs *RedisStore) Clear() {
	ctx := context.Background()
	pools := rs.All()

	pipe := rs.client.Pipeline()
	for _, pool := range pools {
		pipe.Del(ctx, rs.poolKey(pool.Address))
		pipe.Del(ctx, rs.tokenSetKey(pool.Token0))
		pipe.Del(ctx, rs.tokenSetKey(pool.Token1))
	}
	pipe.Del(ctx, rs.allPoolsKey())
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("cache: redis clear failed: %v", err)
	}
}
