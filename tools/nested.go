package tools

import "fmt"

// Indexable is a container whose items can be addressed by position.
type Indexable interface {
	Len() int
	At(i int) any
	SetAt(i int, v any) error
}

// GetNestedItemFromIndices walks indices through nested Indexable values.
func GetNestedItemFromIndices(root Indexable, indices []int) (any, error) {
	var cur any = root
	for depth, idx := range indices {
		c, ok := cur.(Indexable)
		if !ok {
			return nil, fmt.Errorf("index %d at depth %d: item is not indexable", idx, depth)
		}
		if idx < 0 || idx >= c.Len() {
			return nil, fmt.Errorf("index %d at depth %d: %w", idx, depth, ErrOutOfRange)
		}
		cur = c.At(idx)
	}
	return cur, nil
}

// SetNestedItemFromIndices replaces the item addressed by indices.
func SetNestedItemFromIndices(root Indexable, indices []int, v any) error {
	if len(indices) == 0 {
		return fmt.Errorf("set nested item: no indices")
	}
	parent, err := GetNestedItemFromIndices(root, indices[:len(indices)-1])
	if err != nil {
		return err
	}
	c, ok := parent.(Indexable)
	if !ok {
		return fmt.Errorf("set nested item: parent is not indexable")
	}
	last := indices[len(indices)-1]
	if last < 0 || last >= c.Len() {
		return fmt.Errorf("set nested item %d: %w", last, ErrOutOfRange)
	}
	return c.SetAt(last, v)
}
