// Package placeholder protects content that must survive translation
// verbatim (URLs, e-mail addresses, phone numbers) by replacing it with
// numbered markers ([PH0], [PH1], …) before the text is sent to a
// translation service. After translation, Restore substitutes the markers
// back.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// URLs with a scheme or a leading www.; trailing sentence punctuation is
	// left outside the match.
	reURL = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"'()]*[^\s<>"'().,;:!?]`)

	// e-mail addresses
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// phone numbers: optional +, at least eight digits overall with common
	// separators
	rePhone = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{6,}\d`)

	// placeholder reference in translated text
	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces URLs, e-mail addresses and phone numbers with numbered
// placeholders in the order they are found. Literal [PHn] text is treated as
// protected content as well. It returns the modified text and
// the captured originals so Restore can put them back.
func Protect(text string) (string, []string) {
	var markers []string

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(markers))
		markers = append(markers, match)
		return id
	}

	// Marker-like text already in the source is masked too, so it cannot
	// collide with the markers generated below.
	text = rePlaceholder.ReplaceAllStringFunc(text, replace)

	// Order matters: URLs first so an address inside a mailto-less URL or a
	// digit run inside a path is not split.
	text = reURL.ReplaceAllStringFunc(text, replace)
	text = reEmail.ReplaceAllStringFunc(text, replace)
	text = rePhone.ReplaceAllStringFunc(text, func(match string) string {
		if digits(match) < 8 {
			return match
		}
		return replace(match)
	})

	return text, markers
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Restore substitutes [PHn] markers in text back with the originals captured
// by Protect. Unrecognised indices leave the placeholder as-is.
func Restore(text string, markers []string) string {
	if len(markers) == 0 {
		return text
	}
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// InstructionHint returns a rule to send with a translation request so the
// service knows to leave placeholders intact.
func InstructionHint() string {
	return "Preserve all [PHn] markers exactly as they appear; do not translate, move, or remove them."
}

// Validate checks whether all markers that were created by Protect are still
// present in the translated text. It returns the list of missing indices.
func Validate(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Set tracks the markers of every item in a batch.
type Set map[string][]string

// ProtectAll protects every value of items and returns the masked copy
// together with the markers per key. Items without protected content have
// no entry in the Set.
func ProtectAll(items map[string]string) (map[string]string, Set) {
	masked := make(map[string]string, len(items))
	set := make(Set)
	for k, v := range items {
		text, markers := Protect(v)
		masked[k] = text
		if len(markers) > 0 {
			set[k] = markers
		}
	}
	return masked, set
}

// RestoreAll validates and restores markers in translated values. It fails
// on the first key, in no particular order, whose translation lost a marker.
func (s Set) RestoreAll(translated map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(translated))
	for k, v := range translated {
		markers := s[k]
		if missing := Validate(v, markers); len(missing) > 0 {
			return nil, fmt.Errorf("translation of %q lost placeholders %v", k, missing)
		}
		out[k] = Restore(v, markers)
	}
	return out, nil
}
