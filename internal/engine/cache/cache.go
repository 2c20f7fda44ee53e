// Package cache provides a lazily recomputed value guarded by a validity flag.
package cache

// Cached holds a derived value that is recomputed on first read after
// Invalidate. The zero value is not usable; construct with New.
type Cached[T any] struct {
	value      T
	valid      bool
	compute    func() T
	recomputes int
}

// New creates a cache that starts with initial as its valid value and
// recomputes through compute after each invalidation.
func New[T any](initial T, compute func() T) Cached[T] {
	return Cached[T]{value: initial, valid: true, compute: compute}
}

// Get returns the cached value, recomputing it once if it was invalidated.
func (c *Cached[T]) Get() T {
	if !c.valid {
		c.value = c.compute()
		c.valid = true
		c.recomputes++
	}
	return c.value
}

// Invalidate marks the value stale. It never recomputes.
func (c *Cached[T]) Invalidate() {
	c.valid = false
}

// Valid reports whether Get would return without recomputing.
func (c *Cached[T]) Valid() bool {
	return c.valid
}

// Recomputes returns how many times the value has been recomputed.
func (c *Cached[T]) Recomputes() int {
	return c.recomputes
}
