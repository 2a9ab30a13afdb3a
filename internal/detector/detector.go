// Package detector guesses the language of translated locale values and
// compares it with the base language of a BCP 47 locale.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// Detector wraps a lingua detector over every supported language. Models
// load lazily on first use, so build once and reuse.
type Detector struct {
	lingua lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		lingua: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
	}
}

// Code returns the lowercase ISO 639-1 code of the language text is written
// in. Blank or undecidable text yields false.
func (d *Detector) Code(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	lang, ok := d.lingua.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Matches reports whether text is written in the base language of locale,
// so "pt-BR" accepts Portuguese and "zh-Hant" accepts Chinese. It also
// returns the detected code. Undecidable text matches with an empty code.
func (d *Detector) Matches(text, locale string) (bool, string) {
	code, ok := d.Code(text)
	if !ok {
		return true, ""
	}
	return code == BaseLanguage(locale), code
}

// BaseLanguage reduces a BCP 47 locale to its lowercase base language, e.g.
// "zh-Hant" to "zh". Unparseable input is lowercased and returned as is.
func BaseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return strings.ToLower(locale)
	}
	base, _ := tag.Base()
	return base.String()
}
