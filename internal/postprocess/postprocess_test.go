package postprocess

import "testing"

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no thinking blocks",
			input:    `{"greeting": "Bonjour"}`,
			expected: `{"greeting": "Bonjour"}`,
		},
		{
			name:     "think block before object",
			input:    "<think>The user wants French.</think>\n{\"a\": \"b\"}",
			expected: `{"a": "b"}`,
		},
		{
			name:     "reasoning block",
			input:    "Start<reasoning>Analyzing the keys</reasoning>End",
			expected: "StartEnd",
		},
		{
			name:     "multiple thinking blocks",
			input:    "<thinking>First</thinking>middle<thinking>Second</thinking>",
			expected: "middle",
		},
		{
			name:     "truncated thinking block (no closing)",
			input:    "<thinking>Translation in progress",
			expected: "",
		},
		{
			name:     "truncated thinking after object",
			input:    "{\"a\": \"b\"}<think>Incomplete",
			expected: `{"a": "b"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeThinkingBlocks(tt.input)
			if result != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no fence",
			input:    `{"a": "b"}`,
			expected: `{"a": "b"}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\": \"b\"}\n```",
			expected: `{"a": "b"}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": \"b\"}\n```",
			expected: `{"a": "b"}`,
		},
		{
			name:     "fence without newline",
			input:    "```json {\"a\": \"b\"}```",
			expected: `{"a": "b"}`,
		},
		{
			name:     "prose around fence",
			input:    "Here you go:\n```json\n{\"a\": \"b\"}\n```\nEnjoy!",
			expected: `{"a": "b"}`,
		},
		{
			name:     "unterminated fence",
			input:    "```json\n{\"a\": \"b\"}",
			expected: `{"a": "b"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeCodeFence(tt.input)
			if result != tt.expected {
				t.Errorf("removeCodeFence(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTrimToObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"a": "b"}`,
			expected: `{"a": "b"}`,
		},
		{
			name:     "leading prose",
			input:    `Sure! {"a": "b"}`,
			expected: `{"a": "b"}`,
		},
		{
			name:     "trailing prose",
			input:    `{"a": "{b}"} hope this helps`,
			expected: `{"a": "{b}"}`,
		},
		{
			name:     "no object",
			input:    "I cannot translate this.",
			expected: "I cannot translate this.",
		},
		{
			name:     "closing before opening",
			input:    "} oops {",
			expected: "} oops {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := trimToObject(tt.input)
			if result != tt.expected {
				t.Errorf("trimToObject(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "clean object",
			input:    `{"greeting": "Bonjour"}`,
			expected: `{"greeting": "Bonjour"}`,
		},
		{
			name:     "full cleanup pipeline",
			input:    "<think>Translating</think>\n```json\n{\"greeting\": \"Hallo\"}\n```",
			expected: `{"greeting": "Hallo"}`,
		},
		{
			name:     "whitespace only",
			input:    "  \n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSON(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
