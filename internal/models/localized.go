package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// LocalizedText holds a short text in the three portal languages.
// Stored as a JSON object column ({"fr":..,"nl":..,"en":..}).
type LocalizedText struct {
	Fr string `json:"fr,omitempty"`
	Nl string `json:"nl,omitempty"`
	En string `json:"en,omitempty"`
}

// Resolve returns the text for the requested locale with the portal
// fallback chain: requested, then fr, then nl, then en, then empty.
func (t LocalizedText) Resolve(locale string) string {
	switch strings.ToLower(locale) {
	case "fr":
		if t.Fr != "" {
			return t.Fr
		}
	case "nl":
		if t.Nl != "" {
			return t.Nl
		}
	case "en":
		if t.En != "" {
			return t.En
		}
	}
	if t.Fr != "" {
		return t.Fr
	}
	if t.Nl != "" {
		return t.Nl
	}
	return t.En
}

// Empty reports whether no language has a value.
func (t LocalizedText) Empty() bool {
	return t.Fr == "" && t.Nl == "" && t.En == ""
}

// Value implements driver.Valuer.
func (t LocalizedText) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *LocalizedText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = LocalizedText{}
		return nil
	case []byte:
		if len(v) == 0 {
			*t = LocalizedText{}
			return nil
		}
		return json.Unmarshal(v, t)
	case string:
		if v == "" {
			*t = LocalizedText{}
			return nil
		}
		return json.Unmarshal([]byte(v), t)
	}
	return errors.New("localized text: unsupported column type")
}
