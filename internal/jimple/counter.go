package jimple

import (
	"fmt"

	"fortio.org/safecast"
)

// Counter issues fresh names prefix0, prefix1, ... Names are unique for the
// lifetime of one Counter, which is scoped to one function.
type Counter struct {
	prefix string
	next   uint32
}

// NewCounter returns a counter whose first name uses start as its suffix.
func NewCounter(prefix string, start int) (*Counter, error) {
	n, err := safecast.Conv[uint32](start)
	if err != nil {
		return nil, fmt.Errorf("counter %q start %d: %w", prefix, start, err)
	}
	return &Counter{prefix: prefix, next: n}, nil
}

// Next allocates the next name.
func (c *Counter) Next() string {
	name := fmt.Sprintf("%s%d", c.prefix, c.next)
	c.next++
	if c.next == 0 {
		panic(fmt.Errorf("counter %q overflow", c.prefix))
	}
	return name
}

// Peek returns the suffix the next name will carry.
func (c *Counter) Peek() uint32 {
	return c.next
}
