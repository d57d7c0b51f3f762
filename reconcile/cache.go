package reconcile

import (
	"context"

	"jirahour/rea"
)

// FetchFunc loads the portal entries for one range key.
type FetchFunc func(ctx context.Context, key RangeKey) ([]rea.TimeEntry, error)

// EntryCache stores previously fetched portal time entries per date range.
// It is valid for a single authenticated portal identity and a single active
// reconciliation at a time; callers serialize access externally.
type EntryCache struct {
	entries map[string][]rea.TimeEntry
}

func NewEntryCache() *EntryCache {
	return &EntryCache{entries: make(map[string][]rea.TimeEntry)}
}

func (c *EntryCache) Get(key RangeKey) ([]rea.TimeEntry, bool) {
	cached, ok := c.entries[key.String()]
	return cached, ok
}

// Ensure returns the cached list for key, fetching when absent or when
// forceRefresh is set. A fetch failure clears the slot instead of leaving it
// stale and returns an empty list together with the error; callers treat that
// error as a non-fatal warning.
func (c *EntryCache) Ensure(ctx context.Context, key RangeKey, fetch FetchFunc, forceRefresh bool) ([]rea.TimeEntry, error) {
	if !forceRefresh {
		if cached, ok := c.entries[key.String()]; ok {
			return cached, nil
		}
	}

	fetched, err := fetch(ctx, key)
	if err != nil {
		delete(c.entries, key.String())
		return []rea.TimeEntry{}, err
	}

	if fetched == nil {
		fetched = []rea.TimeEntry{}
	}
	c.entries[key.String()] = fetched
	return fetched, nil
}

// Append adds an entry to an existing cached list; absent keys are left
// untouched so a later Ensure still fetches the real state.
func (c *EntryCache) Append(key RangeKey, entry rea.TimeEntry) {
	index := key.String()
	if _, ok := c.entries[index]; !ok {
		return
	}
	c.entries[index] = append(c.entries[index], entry)
}

// Clear drops every cached range. Called on portal logout or session change,
// since cached entries belong to one authenticated identity.
func (c *EntryCache) Clear() {
	c.entries = make(map[string][]rea.TimeEntry)
}

// FilterEntriesByRange keeps the entries whose day interval overlaps the key.
func FilterEntriesByRange(entries []rea.TimeEntry, key RangeKey) []rea.TimeEntry {
	filtered := make([]rea.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if key.Overlaps(entry.StartDate.Time, entry.EndDate.Time) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
