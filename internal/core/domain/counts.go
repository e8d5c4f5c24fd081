package domain

import "encoding/json"

// CountEntry is one key with its occurrence count.
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// OrderedCounts is a counter that remembers first-seen key order.
// Iteration order is part of the report contract, so a plain map is not enough.
type OrderedCounts struct {
	keys   []string
	counts map[string]int
}

// NewOrderedCounts creates an empty counter.
func NewOrderedCounts() *OrderedCounts {
	return &OrderedCounts{counts: make(map[string]int)}
}

// Add increments key by n, registering it on first sight.
func (c *OrderedCounts) Add(key string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
}

// Get returns the count for key.
func (c *OrderedCounts) Get(key string) int {
	if c == nil {
		return 0
	}
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *OrderedCounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *OrderedCounts) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, k := range c.keys {
		total += c.counts[k]
	}
	return total
}

// Keys returns keys in first-seen order.
func (c *OrderedCounts) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Entries returns key/count pairs in first-seen order.
func (c *OrderedCounts) Entries() []CountEntry {
	if c == nil {
		return nil
	}
	out := make([]CountEntry, len(c.keys))
	for i, k := range c.keys {
		out[i] = CountEntry{Key: k, Count: c.counts[k]}
	}
	return out
}

// MarshalJSON encodes the counter as an ordered array.
func (c *OrderedCounts) MarshalJSON() ([]byte, error) {
	entries := c.Entries()
	if entries == nil {
		entries = []CountEntry{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes an ordered array produced by MarshalJSON.
func (c *OrderedCounts) UnmarshalJSON(data []byte) error {
	var entries []CountEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	c.keys = nil
	c.counts = make(map[string]int, len(entries))
	for _, e := range entries {
		c.Add(e.Key, e.Count)
	}
	return nil
}
