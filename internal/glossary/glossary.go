// Package glossary enforces fixed terminology on translated text.
package glossary

import (
	"sort"
	"strings"
)

// Glossary maps a source term to the exact form it must take in every
// translation. Brand names usually map to themselves.
type Glossary map[string]string

// Merge returns a new glossary holding g overlaid with other. Terms in other
// win on conflict.
func (g Glossary) Merge(other Glossary) Glossary {
	out := make(Glossary, len(g)+len(other))
	for k, v := range g {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Terms returns the source terms longest first, ties broken alphabetically,
// so that a longer term is never pre-empted by one of its substrings.
func (g Glossary) Terms() []string {
	terms := make([]string, 0, len(g))
	for k := range g {
		if k != "" {
			terms = append(terms, k)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return terms
}

// Apply replaces every verbatim occurrence of a source term in text with its
// mapped form. Replacement is single pass: replaced text is not rescanned.
func (g Glossary) Apply(text string) string {
	if len(g) == 0 {
		return text
	}
	return g.replacer().Replace(text)
}

// ApplyAll applies the glossary to every value of items in place.
func (g Glossary) ApplyAll(items map[string]string) {
	if len(g) == 0 {
		return
	}
	r := g.replacer()
	for k, v := range items {
		items[k] = r.Replace(v)
	}
}

func (g Glossary) replacer() *strings.Replacer {
	terms := g.Terms()
	pairs := make([]string, 0, len(terms)*2)
	for _, t := range terms {
		pairs = append(pairs, t, g[t])
	}
	return strings.NewReplacer(pairs...)
}
