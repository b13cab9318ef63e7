package cache

import (
	"sync"
	"time"
)

type item struct {
	value      any
	expiration int64
}

type Cache struct {
	items map[string]item
	mutex sync.RWMutex
	now   func() time.Time
}

func New() *Cache {
	return &Cache{
		items: make(map[string]item),
		now:   time.Now,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	it, found := c.items[key]
	if !found {
		return nil, false
	}

	if c.now().UnixNano() >= it.expiration {
		return nil, false
	}

	return it.value, true
}

func (c *Cache) Set(key string, value any, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = item{
		value:      value,
		expiration: c.now().Add(duration).UnixNano(),
	}
}

func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
}

// Purge drops expired entries.
func (c *Cache) Purge() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now().UnixNano()
	removed := 0
	for key, it := range c.items {
		if now >= it.expiration {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

func (c *Cache) GetOrFetch(key string, duration time.Duration, fetch func() (any, error)) (any, error) {
	if value, found := c.Get(key); found {
		return value, nil
	}

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	c.Set(key, value, duration)
	return value, nil
}

// Fetch is GetOrFetch with the type assertion done for the caller.
func Fetch[T any](c *Cache, key string, duration time.Duration, fetch func() (T, error)) (T, error) {
	value, err := c.GetOrFetch(key, duration, func() (any, error) {
		return fetch()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
