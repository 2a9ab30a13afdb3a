// Package postprocess removes common LLM artifacts from a model reply so the
// JSON object it carries can be decoded.
//
// It is applied to the raw content returned by any chat-completion backed
// service before the reply is parsed as a translation batch.
package postprocess

import (
	"regexp"
	"strings"
)

// ExtractJSON isolates the JSON object in a model reply in three phases and
// returns the trimmed result:
//  1. Thinking / reasoning block removal
//  2. Markdown code fence removal
//  3. Trimming to the outermost {…} pair
//
// When no object can be found the cleaned text is returned unchanged and
// decoding it will fail, which callers treat as a malformed reply.
func ExtractJSON(text string) string {
	text = removeThinkingBlocks(text)
	text = removeCodeFence(text)
	text = trimToObject(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
// Flags: i = case-insensitive, s = dot matches newline.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// --- Phase 2: code fences ---

// codeFenceRe matches a fenced block with an optional language tag, e.g.
// ```json … ```. Only the first block is used.
var codeFenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\s*\n?(.*?)```")

func removeCodeFence(text string) string {
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// An opening fence whose closing fence was cut off.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
	}
	return strings.TrimSpace(text)
}

// --- Phase 3: outermost object ---

// trimToObject drops any prose before the first '{' and after the last '}'.
func trimToObject(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
