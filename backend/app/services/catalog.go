package services

import (
	"sync"
	"sync/atomic"
)

// Catalog serializes mutations of the node and rule sets and versions them.
// Writers hold mu exclusively; classifier snapshots hold it shared.
type Catalog struct {
	mu  sync.RWMutex
	rev atomic.Uint64
}

func NewCatalog() *Catalog { return &Catalog{} }

// Revision changes whenever a node or rule is created, updated or deleted.
func (c *Catalog) Revision() uint64 { return c.rev.Load() }

func (c *Catalog) bump() { c.rev.Add(1) }
