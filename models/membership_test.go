package models

import "testing"

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleMember, RoleModerator, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "owner", "ADMIN", "superuser"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true", role)
		}
	}
}

func TestValidVisibility(t *testing.T) {
	for _, v := range []string{VisibilityPublic, VisibilityMembers, VisibilityAdmin} {
		if !ValidVisibility(v) {
			t.Errorf("ValidVisibility(%q) = false", v)
		}
	}
	if ValidVisibility("private") {
		t.Error(`ValidVisibility("private") = true`)
	}
}

func TestCanAdminister(t *testing.T) {
	tests := []struct {
		role   string
		status string
		want   bool
	}{
		{RoleAdmin, StatusApproved, true},
		{RoleModerator, StatusApproved, true},
		{RoleMember, StatusApproved, false},
		{RoleAdmin, StatusPending, false}, // 没批准的 admin 行不算数
		{RoleAdmin, StatusRejected, false},
	}
	for _, tt := range tests {
		m := &Membership{Role: tt.role, Status: tt.status}
		if got := m.CanAdminister(); got != tt.want {
			t.Errorf("CanAdminister(%s/%s) = %v, want %v", tt.role, tt.status, got, tt.want)
		}
	}

	var nilM *Membership
	if nilM.CanAdminister() || nilM.IsApproved() {
		t.Error("nil Membership 不应有任何权限")
	}
}

func TestIsCreator(t *testing.T) {
	c := &Community{ID: 1, CreatorID: 7}
	if !c.IsCreator(7) {
		t.Error("IsCreator(7) = false")
	}
	if c.IsCreator(8) || c.IsCreator(0) {
		t.Error("非创建者或匿名不应判定为创建者")
	}
}
