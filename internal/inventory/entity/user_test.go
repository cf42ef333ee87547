package entity

import "testing"

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		role string
		want Capabilities
	}{
		{RoleManager, Capabilities{CanModify: true, CanAddToStock: true, CanWithdrawFromStock: true}},
		{RoleDirector, Capabilities{CanWithdrawFromStock: true}},
		{RoleSecretary, Capabilities{CanAddToStock: true}},
		{RoleEmployee, Capabilities{CanWithdrawFromStock: true}},
		{"guest", Capabilities{}},
	}
	for _, tt := range tests {
		if got := CapabilitiesFor(tt.role); got != tt.want {
			t.Errorf("CapabilitiesFor(%q) = %+v, want %+v", tt.role, got, tt.want)
		}
	}
}

func TestCapabilitiesAllows(t *testing.T) {
	c := CapabilitiesFor(RoleSecretary)
	if !c.Allows(CapAddToStock) {
		t.Error("secretary should add to stock")
	}
	if c.Allows(CapWithdrawFromStock) || c.Allows(CapModify) {
		t.Error("secretary should not withdraw or modify")
	}
	if c.Allows("unknown") {
		t.Error("unknown capability must be denied")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range Roles {
		if !ValidRole(r) {
			t.Errorf("%s should be valid", r)
		}
	}
	if ValidRole("admin") {
		t.Error("admin is not a role")
	}
}
