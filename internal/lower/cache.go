package lower

import (
	"sort"

	"github.com/born-ml/nnlower/internal/target"
)

// Cache maps source tensor names to the target operand representing them.
// It holds at most one operand per name and is owned by a single session.
type Cache struct {
	operands map[string]*target.Operand
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{operands: make(map[string]*target.Operand)}
}

// Lookup returns the operand cached under name.
func (c *Cache) Lookup(name string) (*target.Operand, bool) {
	o, ok := c.operands[name]
	return o, ok
}

// Has reports whether name is cached.
func (c *Cache) Has(name string) bool {
	_, ok := c.operands[name]
	return ok
}

// Insert caches operand under name. Inserting the instance already cached is
// a no-op; inserting a different one fails with *DuplicateOperandError.
func (c *Cache) Insert(name string, operand *target.Operand) error {
	if prev, ok := c.operands[name]; ok {
		if prev == operand {
			return nil
		}
		return &DuplicateOperandError{Name: name}
	}
	c.operands[name] = operand
	return nil
}

// Len returns the number of cached tensors.
func (c *Cache) Len() int { return len(c.operands) }

// Names returns the cached tensor names, sorted.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.operands))
	for name := range c.operands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
