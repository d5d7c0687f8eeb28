package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// Address is stored as a JSON blob column on clients (one for billing,
// one for shipping) rather than a separate table.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Empty reports whether every field is blank.
func (a Address) Empty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.PostalCode == "" && a.City == "" && a.Country == ""
}

// Oneline returns a compact single-line rendering for lists and search
// subtitles.
func (a Address) Oneline() string {
	parts := make([]string, 0, 4)
	if a.Line1 != "" {
		parts = append(parts, a.Line1)
	}
	cityLine := strings.TrimSpace(a.PostalCode + " " + a.City)
	if cityLine != "" {
		parts = append(parts, cityLine)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		if len(v) == 0 {
			*a = Address{}
			return nil
		}
		return json.Unmarshal(v, a)
	case string:
		if v == "" {
			*a = Address{}
			return nil
		}
		return json.Unmarshal([]byte(v), a)
	}
	return errors.New("address: unsupported column type")
}
