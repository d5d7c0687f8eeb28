package models

import "testing"

func TestLocalizedTextResolve(t *testing.T) {
	full := LocalizedText{Fr: "Tomates", Nl: "Tomaten", En: "Tomatoes"}
	if got := full.Resolve("nl"); got != "Tomaten" {
		t.Errorf("nl = %q", got)
	}
	if got := full.Resolve("NL"); got != "Tomaten" {
		t.Errorf("case-insensitive locale: %q", got)
	}

	frOnly := LocalizedText{Fr: "Tomates"}
	if got := frOnly.Resolve("en"); got != "Tomates" {
		t.Errorf("fallback to fr: %q", got)
	}

	nlOnly := LocalizedText{Nl: "Tomaten"}
	if got := nlOnly.Resolve("en"); got != "Tomaten" {
		t.Errorf("fallback to nl: %q", got)
	}

	enOnly := LocalizedText{En: "Tomatoes"}
	if got := enOnly.Resolve("fr"); got != "Tomatoes" {
		t.Errorf("fallback to en: %q", got)
	}

	if got := (LocalizedText{}).Resolve("fr"); got != "" {
		t.Errorf("empty text resolved to %q", got)
	}
	if got := full.Resolve("de"); got != "Tomates" {
		t.Errorf("unknown locale falls back to fr: %q", got)
	}
}

func TestLocalizedTextScanValue(t *testing.T) {
	orig := LocalizedText{Fr: "Pain", En: "Bread"}
	v, err := orig.Value()
	if err != nil {
		t.Fatal(err)
	}
	var back LocalizedText
	if err := back.Scan(v); err != nil {
		t.Fatal(err)
	}
	if back != orig {
		t.Fatalf("round trip: %+v != %+v", back, orig)
	}

	var fromNil LocalizedText
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNil.Empty() {
		t.Fatalf("nil column gave %+v", fromNil)
	}

	if err := back.Scan(42); err == nil {
		t.Fatal("expected error for unsupported column type")
	}
}
