package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDate(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"2024-03-01", true},
		{"1999-12-31", true},
		{"2024-02-31", true},
		{"2024-13-01", false},
		{"2024-00-10", false},
		{"2024-01-00", false},
		{"2024-01-32", false},
		{"2024/03/01", false},
		{"2024-3-01", false},
		{"2024-03-011", false},
		{" 2024-03-01", false},
		{"2024-03-0a", false},
		{"abcd-ef-gh", false},
		{"", false},
		{"March 1, 2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsDate(tt.input); got != tt.expected {
				t.Errorf("IsDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := New(Rules{Keys: []string{"brand.name"}})

	tests := []struct {
		name     string
		key      string
		value    string
		expected Kind
	}{
		{"plain text", "greeting", "Hello", Translatable},
		{"date value", "privacy_date", "2024-03-01", ForceCopy},
		{"allow-listed key", "brand.name", "WealthX", ForceCopy},
		{"label prefix dot", "lang.de", "Deutsch", ForceCopy},
		{"label prefix underscore", "lang_fr", "Français", ForceCopy},
		{"prefix must lead", "footer.lang.de", "Deutsch", Translatable},
		{"date-like text", "updated", "Updated 2024-03-01", Translatable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.key, tt.value))
		})
	}
}

func TestClassifier_EmptyPrefixesDisableLabels(t *testing.T) {
	c := New(Rules{LabelPrefixes: []string{}})
	assert.Equal(t, Translatable, c.Classify("lang.de", "Deutsch"))
	assert.Equal(t, ForceCopy, c.Classify("lang.de", "2024-03-01"))
}

func TestClassifier_UsesValueNotHistory(t *testing.T) {
	c := New(Rules{})
	assert.Equal(t, ForceCopy, c.Classify("launch", "2025-01-15"))
	assert.Equal(t, Translatable, c.Classify("launch", "Coming soon"))
}

func TestClassifier_Split(t *testing.T) {
	c := New(Rules{})
	forced, translatable := c.Split(map[string]string{
		"greeting":     "Hello",
		"privacy_date": "2024-03-01",
		"lang.en":      "English",
	})

	assert.Equal(t, map[string]string{"privacy_date": "2024-03-01", "lang.en": "English"}, forced)
	assert.Equal(t, map[string]string{"greeting": "Hello"}, translatable)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "translatable", Translatable.String())
	assert.Equal(t, "force-copy", ForceCopy.String())
}
