// Package document models per-locale key/value documents and their
// canonical JSON encoding.
//
// A document is a flat JSON object. The reserved MetaKey holds provenance
// and the fingerprint table for destination documents; authoritative
// documents may omit it and it is ignored when they are read as sources.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MetaKey is the reserved key holding Metadata inside a document.
const MetaKey = "_meta"

// Metadata is owned by a destination document. Fields are declared in
// alphabetical order so the encoded form is sorted like the entries.
type Metadata struct {
	GeneratedBy  string            `json:"generated_by"`
	SourceHashes map[string]string `json:"source_hashes"`
	SourceLang   string            `json:"source_lang"`
	TargetLang   string            `json:"target_lang"`
	UpdatedAt    string            `json:"updated_at"`
}

// Document holds the entries of one locale. Entry values keep whatever JSON
// type they were decoded with; only string values are translatable.
type Document struct {
	Entries map[string]any
	Meta    Metadata
}

// New returns an empty document.
func New() *Document {
	return &Document{
		Entries: make(map[string]any),
		Meta:    Metadata{SourceHashes: make(map[string]string)},
	}
}

// Strings returns the string-valued entries. Values of any other JSON type
// are not entries for translation purposes.
func (d *Document) Strings() map[string]string {
	out := make(map[string]string, len(d.Entries))
	for k, v := range d.Entries {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Keys returns the entry keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the entry map and fingerprint table. Entry
// values are shared; decoded JSON values are never mutated in place.
func (d *Document) Clone() *Document {
	c := &Document{
		Entries: make(map[string]any, len(d.Entries)),
		Meta:    d.Meta,
	}
	for k, v := range d.Entries {
		c.Entries[k] = v
	}
	c.Meta.SourceHashes = make(map[string]string, len(d.Meta.SourceHashes))
	for k, v := range d.Meta.SourceHashes {
		c.Meta.SourceHashes[k] = v
	}
	return c
}

// Decode parses a document. A missing or malformed MetaKey yields empty
// metadata rather than an error so hand-edited files stay readable.
func Decode(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	doc := New()
	for k, msg := range raw {
		if k == MetaKey {
			var meta Metadata
			if err := json.Unmarshal(msg, &meta); err == nil {
				doc.Meta = meta
			}
			continue
		}
		v, err := decodeValue(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse value of %q: %w", k, err)
		}
		doc.Entries[k] = v
	}
	if doc.Meta.SourceHashes == nil {
		doc.Meta.SourceHashes = make(map[string]string)
	}
	return doc, nil
}

func decodeValue(msg json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode renders d with sorted keys, two-space indentation, unescaped HTML
// characters and a trailing newline. Equal documents encode to equal bytes.
func Encode(d *Document) ([]byte, error) {
	out := make(map[string]any, len(d.Entries)+1)
	for k, v := range d.Entries {
		out[k] = v
	}
	meta := d.Meta
	if meta.SourceHashes == nil {
		meta.SourceHashes = map[string]string{}
	}
	out[MetaKey] = meta

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
