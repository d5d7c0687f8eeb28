package models

import "testing"

func TestPermissionSetHas(t *testing.T) {
	cases := []struct {
		name      string
		set       PermissionSet
		requested string
		want      bool
	}{
		{"exact", PermissionSet{PermManageOrders: true}, PermManageOrders, true},
		{"missing", PermissionSet{PermManageOrders: true}, PermManageClients, false},
		{"disabled entry", PermissionSet{PermManageOrders: false}, PermManageOrders, false},
		{"super admin", PermissionSet{PermSuperAdmin: true}, PermManageSettings, true},
		{"resource wildcard", PermissionSet{"orders:*": true}, PermManageOrders, true},
		{"resource wildcard other resource", PermissionSet{"orders:*": true}, PermManageClients, false},
		{"empty request", PermissionSet{PermSuperAdmin: true}, "", false},
		{"nil set", nil, PermManageOrders, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.set.Has(c.requested); got != c.want {
				t.Errorf("Has(%q) = %v, want %v", c.requested, got, c.want)
			}
		})
	}
}

func TestPermissionSetGrantAndEnabled(t *testing.T) {
	var p PermissionSet
	p.Grant(PermManageProducts)
	p.Grant(PermManageClients)
	p[PermManageOrders] = false

	if !p.Has(PermManageProducts) {
		t.Fatal("granted permission not held")
	}
	enabled := p.Enabled()
	if len(enabled) != 2 || enabled[0] != PermManageClients || enabled[1] != PermManageProducts {
		t.Fatalf("enabled = %v", enabled)
	}
}

func TestPermissionSetScanValue(t *testing.T) {
	orig := PermissionSet{PermManageOrders: true, PermManageClients: true}
	v, err := orig.Value()
	if err != nil {
		t.Fatal(err)
	}
	var back PermissionSet
	if err := back.Scan(v); err != nil {
		t.Fatal(err)
	}
	if !back.Has(PermManageOrders) || !back.Has(PermManageClients) || back.Has(PermManageSettings) {
		t.Fatalf("round trip = %v", back.Enabled())
	}

	var fromNil PermissionSet
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if fromNil == nil || len(fromNil) != 0 {
		t.Fatalf("nil column gave %v", fromNil)
	}
}
