// Package chunker splits a translation batch into smaller batches so that a
// single request never carries more text than a service handles reliably.
// Keys are never split across batches; an item larger than the budget gets
// a batch of its own.
package chunker

import (
	"sort"
	"unicode/utf8"
)

const (
	// DefaultMaxChars is the default character budget of one batch.
	DefaultMaxChars = 6000
)

// Split groups the keys of items into batches whose values total at most
// maxChars unicode code points. Keys are visited in sorted order so the
// split is deterministic. If maxChars ≤ 0 it is treated as unlimited.
func Split(items map[string]string, maxChars int) [][]string {
	if len(items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if maxChars <= 0 {
		return [][]string{keys}
	}

	var batches [][]string
	var current []string
	size := 0

	for _, k := range keys {
		n := utf8.RuneCountInString(items[k])
		if len(current) > 0 && size+n > maxChars {
			batches = append(batches, current)
			current = nil
			size = 0
		}
		current = append(current, k)
		size += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// Subset returns the items named by keys.
func Subset(items map[string]string, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = items[k]
	}
	return out
}
