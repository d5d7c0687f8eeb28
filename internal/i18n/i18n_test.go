package i18n

import "testing"

func TestT(t *testing.T) {
	if got := T("nl", "nav-catalog"); got != "Catalogus" {
		t.Errorf("nl nav-catalog = %q", got)
	}
	if got := T("EN", "nav-catalog"); got != "Catalog" {
		t.Errorf("upper-case lang = %q", got)
	}
	// Unsupported language falls back to French.
	if got := T("de", "nav-catalog"); got != "Catalogue" {
		t.Errorf("de nav-catalog = %q", got)
	}
	// Unknown code comes back verbatim.
	if got := T("fr", "no-such-code"); got != "no-such-code" {
		t.Errorf("unknown code = %q", got)
	}
}

func TestSupported(t *testing.T) {
	for _, lang := range []string{"fr", "nl", "en", "FR"} {
		if !Supported(lang) {
			t.Errorf("Supported(%q) = false", lang)
		}
	}
	if Supported("de") || Supported("") {
		t.Error("unsupported language accepted")
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"nl-BE,nl;q=0.9,en;q=0.8", "nl"},
		{"en-US,en;q=0.5", "en"},
		{"fr-FR", "fr"},
		{"de-DE,de;q=0.9", "fr"}, // unsupported, default
		{"", "fr"},
		{"de;q=0.9, NL;q=0.8", "nl"},
	}
	for _, c := range cases {
		if got := DetectLanguage(c.header); got != c.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}
