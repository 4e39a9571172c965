package service

import "sync"

type refKey struct {
	centerID int32
	name     string
}

// RefCache is a process-wide read-through cache for static reference data,
// keyed by dive center. Writers must call Invalidate after every mutation of
// the underlying data; there is no TTL.
type RefCache struct {
	mu      sync.RWMutex
	entries map[refKey]any
}

func NewRefCache() *RefCache {
	return &RefCache{entries: make(map[refKey]any)}
}

// GetOrLoad returns the cached value for (centerID, name), calling load and
// storing the result on a miss. Load errors are not cached.
func (c *RefCache) GetOrLoad(centerID int32, name string, load func() (any, error)) (any, error) {
	key := refKey{centerID: centerID, name: name}

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

func (c *RefCache) Invalidate(centerID int32, name string) {
	c.mu.Lock()
	delete(c.entries, refKey{centerID: centerID, name: name})
	c.mu.Unlock()
}
