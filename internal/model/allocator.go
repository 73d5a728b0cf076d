package model

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/poikilos/anewcommit/internal/errors"
)

// Allocator issues locally-unique action ids.
//
// Ids are decimal integers rendered as strings. An allocator is owned by the
// process (or a test) and shared by every project loaded in it, so ids issued
// for one project never collide with ids issued for another.
type Allocator interface {
	// Allocate returns an id that was never allocated or absorbed before.
	Allocate() string
	// Absorb marks id as used and moves the counter past it.
	Absorb(id string) error
	// IsUsed reports whether id was allocated or absorbed.
	IsUsed(id string) bool
}

// Counter is the default Allocator. It is safe for concurrent use.
type Counter struct {
	mu   sync.Mutex
	next int
	used map[string]struct{}
}

// NewCounter returns an allocator whose first id is "0".
func NewCounter() *Counter {
	return &Counter{used: make(map[string]struct{})}
}

// Allocate implements Allocator.
func (c *Counter) Allocate() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		id := strconv.Itoa(c.next)
		c.next++
		if _, taken := c.used[id]; !taken {
			c.used[id] = struct{}{}
			return id
		}
	}
}

// Absorb implements Allocator.
func (c *Counter) Absorb(id string) error {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: %q", errors.ErrMalformedID, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.used[id] = struct{}{}
	if n >= c.next {
		c.next = n + 1
	}
	return nil
}

// IsUsed implements Allocator.
func (c *Counter) IsUsed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.used[id]
	return ok
}

// Next returns the value the next Allocate call will try first.
func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}
