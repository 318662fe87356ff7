package names

import "testing"

func TestMaterializeWithRolePrefix(t *testing.T) {
	pol := Policy{PrefixWithRole: true, Separator: "_"}

	tests := []struct {
		role Role
		base string
		want string
	}{
		{UE, "tx_ch1", "ue_tx_ch1"},
		{UE, "rx_in", "ue_rx_in"},
		{GNB, "tx_ch1", "gnb_tx_ch1"},
		{PrimaryUE, "inbound_pool", "ue_inbound_pool"},
		{PrimaryGNB, "inbound_pool", "gnb_inbound_pool"},
	}
	for _, tt := range tests {
		if got := pol.Materialize(tt.role, tt.base); got != tt.want {
			t.Errorf("Materialize(%s, %q) = %q, want %q", tt.role, tt.base, got, tt.want)
		}
	}
}

func TestMaterializeLiteral(t *testing.T) {
	pol := Policy{PrefixWithRole: false, Separator: "_"}
	if got := pol.Materialize(UE, "pg_to_pu"); got != "pg_to_pu" {
		t.Errorf("literal policy changed the name: %q", got)
	}
}

func TestMaterializeDeterministic(t *testing.T) {
	// Primary and secondary sides must agree byte for byte.
	pol := Policy{PrefixWithRole: true, Separator: "_"}
	creator := pol.Materialize(PrimaryUE, "inbound_ring")
	attacher := pol.Materialize(UE, "inbound_ring")
	if creator != attacher {
		t.Errorf("creator %q != attacher %q", creator, attacher)
	}
}

func TestMaterializeDefaultSeparator(t *testing.T) {
	pol := Policy{PrefixWithRole: true}
	if got := pol.Materialize(GNB, "ring0"); got != "gnb_ring0" {
		t.Errorf("empty separator: got %q, want gnb_ring0", got)
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []Role{PrimaryUE, PrimaryGNB, UE, GNB} {
		got, ok := ParseRole(r.String())
		if !ok || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, ok)
		}
	}
	if _, ok := ParseRole("unknown-role"); ok {
		t.Error("ParseRole accepted garbage")
	}
}

func TestIsPrimary(t *testing.T) {
	if !PrimaryUE.IsPrimary() || !PrimaryGNB.IsPrimary() {
		t.Error("primary roles must be creators")
	}
	if UE.IsPrimary() || GNB.IsPrimary() {
		t.Error("secondary roles must not be creators")
	}
}
