package models

import (
	"reflect"
	"testing"
)

func TestTeamDerivedViews(t *testing.T) {
	team := &Team{ID: 1, Members: []Participant{
		{ID: 0, Field: "Biology", Nationality: "Indian"},
		{ID: 3, Field: "Engineering", Nationality: "Indian"},
		{ID: 4, Field: "Biology", Nationality: "USA"},
	}}

	if got := team.Fields(); !reflect.DeepEqual(got, []string{"Biology", "Engineering", "Biology"}) {
		t.Errorf("Unexpected fields %v", got)
	}
	if got := team.Nationalities(); !reflect.DeepEqual(got, []string{"Indian", "Indian", "USA"}) {
		t.Errorf("Unexpected nationalities %v", got)
	}
	if team.MemberCount() != 3 {
		t.Errorf("Expected 3 members, got %d", team.MemberCount())
	}
	if team.CountField("Biology") != 2 || team.CountNationality("Indian") != 2 || team.CountField("Physics") != 0 {
		t.Error("Unexpected member counts")
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		p    Participant
		want string
	}{
		{Participant{FirstName: "Asha", LastName: "Rao"}, "Asha Rao"},
		{Participant{FirstName: "Asha"}, "Asha"},
		{Participant{LastName: "Rao"}, "Rao"},
		{Participant{}, ""},
	}
	for _, tt := range tests {
		if got := tt.p.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}
