package detector

import (
	"testing"
)

func TestDetector_Code(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{"blank value", "  \n", "", false},
		{"english onboarding copy", "Connect your bank account to start tracking every Flow.", "en", true},
		{"german settings label", "Benachrichtigungen für neue Überweisungen aktivieren", "de", true},
		{"spanish error message", "No se pudo guardar el presupuesto. Inténtalo de nuevo.", "es", true},
		{"polish empty state", "Nie masz jeszcze żadnych zaplanowanych przelewów.", "pl", true},
		{"japanese tooltip", "この取引を削除してもよろしいですか？", "ja", true},
		{"traditional chinese banner", "歡迎使用您的個人財務儀表板，隨時掌握資金流向。", "zh", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.Code(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Code(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if code != tt.wantCode {
				t.Errorf("Code(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_Matches(t *testing.T) {
	d := New()

	tests := []struct {
		name         string
		text         string
		locale       string
		wantMatch    bool
		wantDetected string
	}{
		{
			name:         "region subtag",
			text:         "Sua carteira foi sincronizada com sucesso hoje.",
			locale:       "pt-BR",
			wantMatch:    true,
			wantDetected: "pt",
		},
		{
			name:         "script subtag",
			text:         "歡迎使用您的個人財務儀表板，隨時掌握資金流向。",
			locale:       "zh-Hant",
			wantMatch:    true,
			wantDetected: "zh",
		},
		{
			name:         "untranslated english in french file",
			text:         "Connect your bank account to start tracking every Flow.",
			locale:       "fr",
			wantMatch:    false,
			wantDetected: "en",
		},
		{
			name:         "undecidable value",
			text:         "",
			locale:       "de",
			wantMatch:    true,
			wantDetected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, detected := d.Matches(tt.text, tt.locale)
			if match != tt.wantMatch || detected != tt.wantDetected {
				t.Errorf("Matches(%q, %q) = (%v, %q), want (%v, %q)",
					tt.text, tt.locale, match, detected, tt.wantMatch, tt.wantDetected)
			}
		})
	}
}

func TestBaseLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"zh-Hant", "zh"},
		{"pt-BR", "pt"},
		{"sr-Latn-RS", "sr"},
		{"EN", "en"},
		{"de", "de"},
		{"not a tag!", "not a tag!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := BaseLanguage(tt.input); got != tt.expected {
				t.Errorf("BaseLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
