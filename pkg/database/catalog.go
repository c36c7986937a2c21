package database

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var ErrUnknownTable = errors.New("unknown table")

// Catalog holds the tables of a session by name.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]Table
}

func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]Table)}
}

// Register stores t under name and reports whether it replaced a table.
func (c *Catalog) Register(name string, t Table) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, replaced := c.tables[name]
	c.tables[name] = t
	return replaced
}

func (c *Catalog) Table(name string) (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownTable)
	}
	return t, nil
}

// ColumnTable returns the named table if it stores records column by column.
func (c *Catalog) ColumnTable(name string) (*ColumnTable, error) {
	t, err := c.Table(name)
	if err != nil {
		return nil, err
	}
	ct, ok := t.(*ColumnTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w: not a column table", name, ErrTypeMismatch)
	}
	return ct, nil
}

// Names lists the registered tables in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.tables))
}
