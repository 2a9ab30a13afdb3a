package planner

import (
	"sort"

	"github.com/valpere/i18nsync/internal/document"
)

// SyncDeletions removes from dst every entry and every recorded fingerprint
// whose key is not in source. New maps are built and swapped in rather
// than deleting while ranging. It returns the removed entry keys, sorted;
// the second result reports whether anything, including orphan
// fingerprints, was removed.
func SyncDeletions(source map[string]string, dst *document.Document) ([]string, bool) {
	var removed []string
	entries := make(map[string]any, len(dst.Entries))
	for k, v := range dst.Entries {
		if _, ok := source[k]; !ok {
			removed = append(removed, k)
			continue
		}
		entries[k] = v
	}

	hashes := make(map[string]string, len(dst.Meta.SourceHashes))
	orphans := 0
	for k, h := range dst.Meta.SourceHashes {
		if _, ok := source[k]; !ok {
			orphans++
			continue
		}
		hashes[k] = h
	}

	dst.Entries = entries
	dst.Meta.SourceHashes = hashes

	sort.Strings(removed)
	return removed, len(removed) > 0 || orphans > 0
}
