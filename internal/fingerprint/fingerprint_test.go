package fingerprint

import "testing"

func TestOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "ascii",
			input:    "abc",
			expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.input); got != tt.expected {
				t.Errorf("Of(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOf_Sensitivity(t *testing.T) {
	if Of("Hello") == Of("Hello ") {
		t.Error("trailing whitespace must change the fingerprint")
	}
	if Of("Hello") == Of("hello") {
		t.Error("case must change the fingerprint")
	}
}

func TestMatches(t *testing.T) {
	if !Matches(Of("Hello"), "Hello") {
		t.Error("expected match for same text")
	}
	if Matches(Of("Hello"), "Hi there") {
		t.Error("expected mismatch for changed text")
	}
	if Matches("", "") {
		t.Error("empty recorded fingerprint must never match")
	}
}
