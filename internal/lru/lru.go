package lru

import (
	"container/list"
	"sync"
)

type lruShard struct {
	mu         sync.Mutex
	totalBytes uint64
	maxBytes   uint64
	evictList  *list.List
	elems      map[string]*list.Element
	onEvict    OnEvict
}

func newLruShard(maxBytes uint64, onEvict OnEvict) *lruShard {
	return &lruShard{
		maxBytes:  maxBytes,
		evictList: list.New(),
		elems:     make(map[string]*list.Element),
		onEvict:   onEvict,
	}
}

type entry struct {
	key   string
	value []byte
}

func (ls *lruShard) setOnEvict(fn OnEvict) {
	ls.mu.Lock()
	ls.onEvict = fn
	ls.mu.Unlock()
}

func (ls *lruShard) get(key string) ([]byte, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return nil, false
	}

	ls.evictList.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// add stores value under key and returns true if eviction happened.
// A value that alone exceeds the shard limit is not stored.
func (ls *lruShard) add(key string, value []byte) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	size := uint64(len(value))
	if size > ls.maxBytes {
		if elem, ok := ls.elems[key]; ok {
			ls.removeElementUnderLock(elem)
		}
		return false
	}

	if elem, ok := ls.elems[key]; ok {
		ls.evictList.MoveToFront(elem)
		ls.totalBytes -= uint64(len(elem.Value.(*entry).value))
		elem.Value.(*entry).value = value
		ls.totalBytes += size
		return ls.evictUnderLock(key)
	}

	elem := ls.evictList.PushFront(&entry{key: key, value: value})
	ls.elems[key] = elem
	ls.totalBytes += size

	return ls.evictUnderLock(key)
}

// evictUnderLock drops the oldest entries, never the one under keep,
// until the shard fits its limit.
func (ls *lruShard) evictUnderLock(keep string) bool {
	var evicted bool
	for ls.totalBytes > ls.maxBytes {
		elem := ls.evictList.Back()
		if elem == nil || elem.Value.(*entry).key == keep {
			break
		}

		k, v := ls.removeElementUnderLock(elem)
		evicted = true
		if ls.onEvict != nil {
			ls.onEvict(k, v)
		}
	}

	return evicted
}

func (ls *lruShard) purge() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.elems = make(map[string]*list.Element)
	ls.totalBytes = 0
	ls.evictList.Init()
}

func (ls *lruShard) remove(key string) ([]byte, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return nil, false
	}

	_, value := ls.removeElementUnderLock(elem)
	return value, true
}

func (ls *lruShard) removeElementUnderLock(elem *list.Element) (string, []byte) {
	ls.evictList.Remove(elem)

	kv := elem.Value.(*entry)
	delete(ls.elems, kv.key)
	ls.totalBytes -= uint64(len(kv.value))
	return kv.key, kv.value
}

func (ls *lruShard) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.elems)
}

func (ls *lruShard) size() uint64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.totalBytes
}

func (ls *lruShard) keys() []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	keys := make([]string, 0, len(ls.elems))
	for k := range ls.elems {
		keys = append(keys, k)
	}
	return keys
}
