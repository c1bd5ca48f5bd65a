package lru

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var ErrIllegalCapacity = errors.New("illegal lru cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

type OnEvict func(k string, v []byte)

// Cache is a byte bounded LRU split into independently locked shards.
// A key always lands on the same shard, picked by its xxhash.
type Cache struct {
	maxBytes uint64
	capacity uint64
	shards   []*lruShard
}

func NewCache(shards int, maxTotalBytes uint64, onEvict OnEvict) (*Cache, error) {
	if shards < 2 {
		return nil, ErrInvalidSharding
	}

	if maxTotalBytes < uint64(shards) {
		return nil, errors.Wrapf(ErrIllegalCapacity, "%d bytes cannot be split into %d shards", maxTotalBytes, shards)
	}

	c := Cache{
		maxBytes: maxTotalBytes,
		capacity: uint64(shards),
		shards:   make([]*lruShard, shards),
	}

	shardMaxBytes := maxTotalBytes / c.capacity
	for i := range c.shards {
		c.shards[i] = newLruShard(shardMaxBytes, onEvict)
	}

	return &c, nil
}

func (c *Cache) OnEvict(fn OnEvict) {
	for i := range c.shards {
		c.shards[i].setOnEvict(fn)
	}
}

// Add value to cache under key and returns true if eviction happened
func (c *Cache) Add(key string, value []byte) bool {
	return c.getShard(key).add(key, value)
}

func (c *Cache) Get(key string) ([]byte, bool) {
	return c.getShard(key).get(key)
}

func (c *Cache) Remove(key string) {
	c.getShard(key).remove(key)
}

func (c *Cache) Purge() {
	var wg sync.WaitGroup

	wg.Add(len(c.shards))
	for i := range c.shards {
		go func(i int) {
			defer wg.Done()
			c.shards[i].purge()
		}(i)
	}

	wg.Wait()
}

func (c *Cache) Count() int {
	var count int
	for i := range c.shards {
		count += c.shards[i].len()
	}
	return count
}

func (c *Cache) Bytes() uint64 {
	var total uint64
	for i := range c.shards {
		total += c.shards[i].size()
	}
	return total
}

func (c *Cache) Keys() []string {
	keys := make([]string, 0, c.Count())
	for i := range c.shards {
		keys = append(keys, c.shards[i].keys()...)
	}

	return keys
}

func (c *Cache) getShard(key string) *lruShard {
	return c.shards[xxhash.Sum64String(key)%c.capacity]
}
