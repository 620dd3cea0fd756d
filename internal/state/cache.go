// internal/state/cache.go
package state

import (
	"sync"

	"github.com/tamzrod/scb-bridge/internal/command"
)

// Entry is the cached raw value of one command.
// Exactly one of Value / Slots is meaningful depending on the command.
type Entry struct {
	Value string         // scalar commands
	Slots map[int]string // indexed commands, keyed by wire slot
}

// Cache holds the last raw value seen for every command. Last write wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[command.ID]Entry
}

func New() *Cache {
	return &Cache{entries: make(map[command.ID]Entry)}
}

// Set stores a scalar value.
func (c *Cache) Set(id command.ID, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = Entry{Value: raw}
}

// SetSlot stores one wire slot of an indexed command.
func (c *Cache) SetSlot(id command.ID, slot int, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[id]
	if e.Slots == nil {
		e.Slots = make(map[int]string, command.SlotCount)
	}
	e.Slots[slot] = raw
	c.entries[id] = e
}

// Get returns a copy of the entry for id.
func (c *Cache) Get(id command.ID) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Scalar returns the scalar value for id.
func (c *Cache) Scalar(id command.ID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || e.Slots != nil {
		return "", false
	}
	return e.Value, true
}

// Slot returns one wire slot of an indexed command.
func (c *Cache) Slot(id command.ID, slot int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[id].Slots[slot]
	return v, ok
}

// Len is the number of commands with a cached value.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies the cache. The copy is safe to read without locking.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Snapshot, len(c.entries))
	for id, e := range c.entries {
		out[id] = e.clone()
	}
	return out
}

func (e Entry) clone() Entry {
	if e.Slots == nil {
		return e
	}
	slots := make(map[int]string, len(e.Slots))
	for k, v := range e.Slots {
		slots[k] = v
	}
	return Entry{Value: e.Value, Slots: slots}
}

// Snapshot is a point-in-time copy of the cache.
type Snapshot map[command.ID]Entry

// Scalar returns the scalar value for id.
func (s Snapshot) Scalar(id command.ID) (string, bool) {
	e, ok := s[id]
	if !ok || e.Slots != nil {
		return "", false
	}
	return e.Value, true
}

// Slot returns one wire slot of an indexed command.
func (s Snapshot) Slot(id command.ID, slot int) (string, bool) {
	v, ok := s[id].Slots[slot]
	return v, ok
}
