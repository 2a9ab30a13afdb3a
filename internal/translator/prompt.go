package translator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/i18nsync/internal/glossary"
	"github.com/valpere/i18nsync/internal/placeholder"
)

const systemPrompt = "You are a professional product localization expert for a product website. " +
	"Translate naturally for the target locale: concise, clear and idiomatic. " +
	"Do NOT translate brand names or glossary terms. Keep punctuation style appropriate. " +
	"Answer with a single JSON object and nothing else."

// baseRules are sent with every batch.
var baseRules = []string{
	"Keep keys unchanged; translate only values.",
	"Keep email addresses, URLs and phone numbers unchanged.",
	"If a value contains colon labels like 'Email:' keep the label idiomatic in the target language.",
	"Keep the tone minimal and confident, not exaggerated.",
}

// Rules returns the instructions for one batch, including one rule per
// glossary term so brand names survive.
func Rules(g glossary.Glossary) []string {
	rules := make([]string, 0, len(baseRules)+len(g)+1)
	rules = append(rules, baseRules...)
	rules = append(rules, placeholder.InstructionHint())

	terms := g.Terms()
	sort.Strings(terms)
	for _, term := range terms {
		if g[term] == term {
			rules = append(rules, fmt.Sprintf("Keep '%s' unchanged.", term))
		} else {
			rules = append(rules, fmt.Sprintf("Always render '%s' as '%s'.", term, g[term]))
		}
	}
	return rules
}

// NewPayload builds the document sent for one batch of masked items.
func NewPayload(sourceLang, targetLang string, items map[string]string, g glossary.Glossary) Payload {
	terms := make(map[string]string, len(g))
	for k, v := range g {
		terms[k] = v
	}
	return Payload{
		Task:           "translate_i18n",
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Glossary:       terms,
		Items:          items,
		Rules:          Rules(g),
		OutputFormat:   "JSON object mapping the same keys to translated strings",
	}
}

// describe renders a short, log-friendly summary of a payload.
func describe(p Payload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s->%s, %d items", p.SourceLanguage, p.TargetLanguage, len(p.Items))
	if len(p.Glossary) > 0 {
		fmt.Fprintf(&sb, ", %d glossary terms", len(p.Glossary))
	}
	return sb.String()
}
