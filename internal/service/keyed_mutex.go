package service

import "sync"

// keyedMutex serializes work per key. Used to make the record update
// and cache invalidation of one document atomic with respect to
// concurrent loads of the same document in this process. Entries are
// never evicted: one mutex is retained per document id touched during
// the process lifetime.
type keyedMutex struct {
	mu sync.Map
}

// Lock locks the mutex for key and returns its unlock function
func (k *keyedMutex) Lock(key uint64) func() {
	v, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
