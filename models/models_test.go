package models

import "testing"

func TestProjectStatus(t *testing.T) {
	tests := []struct {
		status   ProjectStatus
		valid    bool
		editable bool
	}{
		{ProjectStatusDraft, true, true},
		{ProjectStatusProvisional, true, false},
		{ProjectStatusApproved, true, false},
		{ProjectStatusRejected, true, true},
		{ProjectStatus("archived"), false, false},
	}
	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("%s.Valid() = %v", tt.status, got)
		}
		if got := tt.status.Editable(); got != tt.editable {
			t.Errorf("%s.Editable() = %v", tt.status, got)
		}
	}
	if ProjectStatusProvisional.Label() != "Provisional (Submitted)" {
		t.Errorf("label = %q", ProjectStatusProvisional.Label())
	}
}

func TestSpecies(t *testing.T) {
	for _, s := range AllSpecies() {
		if !s.Valid() || s.CarbonFactor() <= 0 {
			t.Errorf("%s should be valid with a positive factor", s)
		}
	}
	if Species("avicennia").Valid() {
		t.Error("species names are case sensitive")
	}
	if Species("Nypa").CarbonFactor() != 0 {
		t.Error("unknown species should have no factor")
	}
}

func TestEnumsRejectUnknownValues(t *testing.T) {
	if DocType("passport").Valid() || !DocTypeNgoExperience.Valid() {
		t.Error("DocType validation")
	}
	if ActionKind("delete").Valid() || !ActionFieldReviewRequested.Valid() {
		t.Error("ActionKind validation")
	}
	if Role("root").Valid() || !RoleVerifier.Valid() {
		t.Error("Role validation")
	}
}

func TestBeforeCreateAssignsDefaults(t *testing.T) {
	p := Project{}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.Status != ProjectStatusDraft {
		t.Errorf("project defaults = %q, %q", p.ID, p.Status)
	}

	u := User{ID: "fixed"}
	if err := u.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if u.ID != "fixed" {
		t.Errorf("existing id overwritten: %s", u.ID)
	}
}
