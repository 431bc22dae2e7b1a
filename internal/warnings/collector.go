// Package warnings records data-quality diagnostics raised during a conversion run.
package warnings

import "fmt"

// Entry is one diagnostic about a source entity field.
type Entry struct {
	EntityID string `json:"entity_id"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// String renders the entry in the stable operator-facing template.
func (e Entry) String() string {
	return fmt.Sprintf("WARNING: Entity '%s' - Field '%s': %s", e.EntityID, e.Field, e.Message)
}

// Collector is an append-only, insertion-ordered warning log.
// A Collector belongs to a single run and is not safe for concurrent use.
type Collector struct {
	entries []Entry
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Collect(entityID, field, message string) {
	c.entries = append(c.entries, Entry{EntityID: entityID, Field: field, Message: message})
}

func (c *Collector) Collectf(entityID, field, format string, args ...any) {
	c.Collect(entityID, field, fmt.Sprintf(format, args...))
}

// Snapshot returns the rendered warnings collected so far.
func (c *Collector) Snapshot() []string {
	out := make([]string, len(c.entries))
	for i, entry := range c.entries {
		out[i] = entry.String()
	}
	return out
}

// Entries returns a copy of the structured warnings collected so far.
func (c *Collector) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Collector) Len() int {
	return len(c.entries)
}

func (c *Collector) Clear() {
	c.entries = nil
}
