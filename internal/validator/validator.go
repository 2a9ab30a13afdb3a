// Package validator checks that translated values are written in the
// expected target language.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/i18nsync/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator checks that a translation result is written in the expected target language.
// The underlying language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// Mismatch describes one translated value that looks like another language.
type Mismatch struct {
	Key      string
	Expected string
	Detected string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %s but detected %s", m.Key, m.Expected, m.Detected)
}

// IsValid returns true when translatedText appears to be written in targetLang.
//
// Short texts (fewer than minValidationLength runes) and texts whose language
// cannot be determined pass without error. When the detected language differs
// from targetLang the returned error names both codes.
func (v *Validator) IsValid(translatedText, targetLang string) (bool, error) {
	if targetLang == "" {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	if ok, detected := v.det.Matches(text, targetLang); !ok {
		return false, fmt.Errorf("expected %s but detected %s", detector.BaseLanguage(targetLang), detected)
	}

	return true, nil
}

// Check validates every value of items and returns the mismatches sorted by
// key. Empty values are reported with an empty Detected field.
func (v *Validator) Check(items map[string]string, targetLang string) []Mismatch {
	expected := detector.BaseLanguage(targetLang)
	var out []Mismatch
	for k, text := range items {
		if ok, _ := v.IsValid(text, targetLang); ok {
			continue
		}
		detected, _ := v.det.Code(text)
		out = append(out, Mismatch{Key: k, Expected: expected, Detected: detected})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
