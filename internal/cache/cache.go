package cache

import (
	"sync"
	"time"
)

// Cache keeps loader results per key for ttl. Concurrent loads of one key run the loader once.
type Cache[T any] struct {
	m      sync.Map
	ttl    time.Duration
	loader func(key string) T
}

type entry[T any] struct {
	mx    sync.Mutex
	value T
	ts    time.Time
}

func NewWithTTL[T any](ttl time.Duration, loader func(key string) T) *Cache[T] {
	return &Cache[T]{
		m:      sync.Map{},
		ttl:    ttl,
		loader: loader,
	}
}

func (c *Cache[T]) Load(key string) T {
	v, _ := c.m.LoadOrStore(key, new(entry[T]))
	e := v.(*entry[T])

	e.mx.Lock()
	defer e.mx.Unlock()

	if e.ts.IsZero() || time.Since(e.ts) > c.ttl {
		e.value = c.loader(key)
		e.ts = time.Now()
	}

	return e.value
}

// Invalidate forces the next Load of key to call the loader.
func (c *Cache[T]) Invalidate(key string) {
	if v, ok := c.m.Load(key); ok {
		e := v.(*entry[T])

		e.mx.Lock()
		e.ts = time.Time{}
		e.mx.Unlock()
	}
}
