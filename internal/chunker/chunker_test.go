package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		items    map[string]string
		maxChars int
		expected [][]string
	}{
		{
			name:     "empty input",
			items:    map[string]string{},
			maxChars: 10,
			expected: nil,
		},
		{
			name:     "unlimited budget",
			items:    map[string]string{"b": strings.Repeat("x", 50), "a": "y"},
			maxChars: 0,
			expected: [][]string{{"a", "b"}},
		},
		{
			name:     "fits in one batch",
			items:    map[string]string{"a": "12345", "b": "12345"},
			maxChars: 10,
			expected: [][]string{{"a", "b"}},
		},
		{
			name:     "splits at budget",
			items:    map[string]string{"a": "12345", "b": "12345", "c": "1"},
			maxChars: 9,
			expected: [][]string{{"a"}, {"b", "c"}},
		},
		{
			name:     "oversized item alone",
			items:    map[string]string{"a": "1", "b": strings.Repeat("x", 20), "c": "1"},
			maxChars: 5,
			expected: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:     "counts runes not bytes",
			items:    map[string]string{"a": "Привіт", "b": "Світ"},
			maxChars: 10,
			expected: [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Split(tt.items, tt.maxChars)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Split() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplit_CoversEveryKeyOnce(t *testing.T) {
	items := map[string]string{}
	for i := 0; i < 50; i++ {
		items[strings.Repeat("k", i+1)] = strings.Repeat("v", i%7+1)
	}

	seen := map[string]int{}
	for _, batch := range Split(items, 12) {
		for _, k := range batch {
			seen[k]++
		}
	}

	if len(seen) != len(items) {
		t.Fatalf("expected %d keys, got %d", len(items), len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("key %q appears %d times", k, n)
		}
	}
}

func TestSubset(t *testing.T) {
	items := map[string]string{"a": "1", "b": "2", "c": "3"}
	got := Subset(items, []string{"a", "c"})
	want := map[string]string{"a": "1", "c": "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Subset() = %v, want %v", got, want)
	}
}
