// Package cache provee un LRU en memoria para veredictos del oráculo.
package cache

import (
	"container/list"
	"sync"
)

// entry representa un item cacheado.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU es una cache de capacidad fija con desalojo del menos usado recientemente.
// Segura para uso concurrente.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // frente = más reciente

	hits   int64
	misses int64
}

// DefaultCapacity capacidad usada cuando se pide un valor inválido.
const DefaultCapacity = 4096

// NewLRU crea una cache con la capacidad indicada.
//
// Example:
//
//	c := cache.NewLRU[string, int](100)
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get retorna el valor y lo marca como usado recientemente.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Set guarda value bajo key, desalojando el LRU si la cache está llena.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}

// Delete elimina key de la cache.
func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// Len retorna el número de items.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity retorna la capacidad máxima.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Stats retorna hits y misses acumulados.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// evictOldest elimina el item menos usado. Requiere c.mu.
func (c *LRU[K, V]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[K, V]).key)
}
