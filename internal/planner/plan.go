// Package planner decides, per destination document, which entries are
// removed, which are (re)translated and which only get their fingerprint
// seeded.
package planner

import (
	"sort"
	"strings"

	"github.com/valpere/i18nsync/internal/fingerprint"
)

// Plan is the outcome of comparing translatable source entries against a
// destination document.
type Plan struct {
	// Translate maps key to the current source text.
	Translate map[string]string
	// Seed lists, sorted, keys whose fingerprint is recorded without
	// translating because the destination already holds a value.
	Seed []string
}

// Empty reports whether the plan requires neither translation nor seeding.
func (p Plan) Empty() bool {
	return len(p.Translate) == 0 && len(p.Seed) == 0
}

// TranslateKeys returns the keys to translate in sorted order.
func (p Plan) TranslateKeys() []string {
	keys := make([]string, 0, len(p.Translate))
	for k := range p.Translate {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildPlan must only be given the translatable subset of the source;
// force-copied keys are handled unconditionally elsewhere.
//
// A key is translated when it is missing from the destination, when its
// destination value is blank or not a string, or when its recorded
// fingerprint no longer matches the source. A non-blank destination value
// with no recorded fingerprint is kept and seeded.
func BuildPlan(source map[string]string, destination map[string]any, recorded map[string]string) Plan {
	plan := Plan{Translate: make(map[string]string)}

	for key, text := range source {
		current, ok := destination[key]
		s, isString := current.(string)
		if !ok || !isString || strings.TrimSpace(s) == "" {
			plan.Translate[key] = text
			continue
		}

		hash, hasHash := recorded[key]
		switch {
		case !hasHash:
			plan.Seed = append(plan.Seed, key)
		case hash != fingerprint.Of(text):
			plan.Translate[key] = text
		}
	}

	sort.Strings(plan.Seed)
	return plan
}
