// Package classify decides which keys must mirror the authoritative value
// verbatim instead of being translated.
package classify

import "strings"

// Kind is the classification of one key for one pass.
type Kind int

const (
	Translatable Kind = iota
	ForceCopy
)

func (k Kind) String() string {
	switch k {
	case ForceCopy:
		return "force-copy"
	default:
		return "translatable"
	}
}

// DefaultLabelPrefixes name locale-label keys, e.g. "lang.de" holding
// "Deutsch", which read the same in every locale.
var DefaultLabelPrefixes = []string{"lang.", "lang_"}

// Rules configures a Classifier.
type Rules struct {
	LabelPrefixes []string `mapstructure:"label_prefixes"`
	Keys          []string `mapstructure:"keys"`
}

// Classifier is safe for concurrent use once built.
type Classifier struct {
	prefixes []string
	keys     map[string]struct{}
}

// New builds a Classifier. A nil LabelPrefixes uses DefaultLabelPrefixes;
// an empty non-nil slice disables prefix matching.
func New(rules Rules) *Classifier {
	prefixes := rules.LabelPrefixes
	if prefixes == nil {
		prefixes = DefaultLabelPrefixes
	}
	keys := make(map[string]struct{}, len(rules.Keys))
	for _, k := range rules.Keys {
		keys[k] = struct{}{}
	}
	return &Classifier{prefixes: prefixes, keys: keys}
}

// Classify must be given the authoritative value, never the destination one,
// so a key that starts or stops looking like a date is reclassified.
func (c *Classifier) Classify(key, value string) Kind {
	if _, ok := c.keys[key]; ok {
		return ForceCopy
	}
	for _, p := range c.prefixes {
		if p != "" && strings.HasPrefix(key, p) {
			return ForceCopy
		}
	}
	if IsDate(value) {
		return ForceCopy
	}
	return Translatable
}

// Split partitions source entries into the force-copied and translatable
// subsets.
func (c *Classifier) Split(source map[string]string) (forced map[string]string, translatable map[string]string) {
	forced = make(map[string]string)
	translatable = make(map[string]string, len(source))
	for k, v := range source {
		if c.Classify(k, v) == ForceCopy {
			forced[k] = v
		} else {
			translatable[k] = v
		}
	}
	return forced, translatable
}

// IsDate reports whether value is exactly YYYY-MM-DD with month 1..12 and
// day 1..31. Days are not checked against the month.
func IsDate(value string) bool {
	if len(value) != 10 || value[4] != '-' || value[7] != '-' {
		return false
	}
	for i := 0; i < len(value); i++ {
		if i == 4 || i == 7 {
			continue
		}
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	month := int(value[5]-'0')*10 + int(value[6]-'0')
	day := int(value[8]-'0')*10 + int(value[9]-'0')
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
