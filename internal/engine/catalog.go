package engine

import (
	"context"
	"fmt"
)

// Catalog is a read-only source of boxes.
type Catalog interface {
	ListBoxes(ctx context.Context) ([]Box, error)
	GetBox(ctx context.Context, id string) (Box, error)
}

// StaticCatalog is an immutable in-memory catalog.
type StaticCatalog struct {
	order []string
	boxes map[string]Box
}

var _ Catalog = (*StaticCatalog)(nil)

// NewStaticCatalog builds a catalog from boxes. Later boxes with a duplicate id
// replace earlier ones but keep the first position.
func NewStaticCatalog(boxes ...Box) *StaticCatalog {
	c := &StaticCatalog{boxes: make(map[string]Box, len(boxes))}
	for _, b := range boxes {
		if _, ok := c.boxes[b.ID]; !ok {
			c.order = append(c.order, b.ID)
		}
		c.boxes[b.ID] = cloneBox(b)
	}
	return c
}

// ListBoxes returns the boxes in insertion order.
func (c *StaticCatalog) ListBoxes(_ context.Context) ([]Box, error) {
	out := make([]Box, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneBox(c.boxes[id]))
	}
	return out, nil
}

// GetBox returns the box with the given id or ErrNotFound.
func (c *StaticCatalog) GetBox(_ context.Context, id string) (Box, error) {
	b, ok := c.boxes[id]
	if !ok {
		return Box{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneBox(b), nil
}

func cloneBox(b Box) Box {
	b.Rewards = append([]Reward(nil), b.Rewards...)
	return b
}
