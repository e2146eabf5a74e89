// Package reactive provides a single-value observable cell with change detection.
package reactive

import "sync"

// Cell holds one value and notifies observers when it changes.
// Setting a value equal to the current one is not a change and notifies nobody;
// callers that need a repeat to be observed publish an intermediate sentinel first.
//
// Notifications are delivered in Set order. Observers run synchronously and must
// not call Set on the same cell.
type Cell[T any] struct {
	emit sync.Mutex // serializes Set + notification
	mu   sync.RWMutex

	value     T
	equal     func(a, b T) bool
	observers map[uint64]func(T)
	order     []uint64
	nextID    uint64
}

// NewCell creates a cell holding initial, using equal for change detection.
func NewCell[T any](initial T, equal func(a, b T) bool) *Cell[T] {
	return &Cell[T]{
		value:     initial,
		equal:     equal,
		observers: make(map[uint64]func(T)),
	}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores v and notifies observers if it differs from the current value.
// It reports whether a change was published.
func (c *Cell[T]) Set(v T) bool {
	c.emit.Lock()
	defer c.emit.Unlock()

	c.mu.Lock()
	if c.equal(c.value, v) {
		c.mu.Unlock()
		return false
	}
	c.value = v
	fns := make([]func(T), 0, len(c.order))
	for _, id := range c.order {
		fns = append(fns, c.observers[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return true
}

// Observe registers fn for future changes. The returned function removes it.
func (c *Cell[T]) Observe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.order = append(c.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.observers, id)
			for i, oid := range c.order {
				if oid == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}
