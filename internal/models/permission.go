package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// Permission names follow the "resource:action" form used across the
// admin surface (e.g. "products:manage"). "*" grants everything and
// "resource:*" grants every action on one resource.
const (
	PermSuperAdmin       = "*"
	PermManageClients    = "clients:manage"
	PermManageProducts   = "products:manage"
	PermManageCategories = "categories:manage"
	PermManageOrders     = "orders:manage"
	PermManageEmployees  = "employees:manage"
	PermManageSettings   = "settings:manage"
)

// PermissionSet is a capability set: permission name -> enabled.
// Stored as a JSON object column on employee_roles.
type PermissionSet map[string]bool

// Has reports whether the set grants the requested permission,
// honouring the "*" and "resource:*" wildcards.
func (p PermissionSet) Has(requested string) bool {
	if requested == "" {
		return false
	}
	if p[PermSuperAdmin] {
		return true
	}
	if p[requested] {
		return true
	}
	if i := strings.IndexByte(requested, ':'); i > 0 {
		if p[requested[:i]+":*"] {
			return true
		}
	}
	return false
}

// Grant enables a permission, allocating the map when needed.
func (p *PermissionSet) Grant(name string) {
	if *p == nil {
		*p = PermissionSet{}
	}
	(*p)[name] = true
}

// Enabled returns the granted permission names, sorted.
func (p PermissionSet) Enabled() []string {
	out := make([]string, 0, len(p))
	for name, ok := range p {
		if ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Value implements driver.Valuer.
func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionSet{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *PermissionSet) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = PermissionSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("permission set: unsupported column type")
	}
	if len(raw) == 0 {
		*p = PermissionSet{}
		return nil
	}
	return json.Unmarshal(raw, p)
}
