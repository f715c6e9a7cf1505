package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/arnavshah/team-former-api-go/pkg/models"
)

func sampleTeams() []*models.Team {
	return []*models.Team{
		{ID: 2, Members: []models.Participant{
			{ID: 4, FirstName: "Chen", LastName: "Wei", Email: "c@x.com", Nationality: "Chinese", Field: "Physics"},
		}},
		{ID: 1, Members: []models.Participant{
			{ID: 0, FirstName: "Asha", LastName: "Rao", Email: "a@x.com", Nationality: "Indian", Field: "Biology"},
			{ID: 3, FirstName: "Bo", LastName: "Lin", Email: "b@x.com", Nationality: "Taiwanese", Field: "Engineering"},
		}},
		{ID: 3, Members: []models.Participant{}},
	}
}

func TestRender(t *testing.T) {
	want := "Team ID: 1\n" +
		"Member count: 2\n" +
		"- Asha Rao\tNationality: Indian\tField: Biology\n" +
		"- Bo Lin\tNationality: Taiwanese\tField: Engineering\n" +
		"Team ID: 2\n" +
		"Member count: 1\n" +
		"- Chen Wei\tNationality: Chinese\tField: Physics\n" +
		"Team ID: 3\n" +
		"Member count: 0\n"

	teams := sampleTeams()
	var buf bytes.Buffer
	if err := Render(&buf, teams); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}

	// Rendering must not reorder the caller's slice.
	if teams[0].ID != 2 {
		t.Errorf("Expected input order to be preserved, got first team %d", teams[0].ID)
	}
	if String(teams) != want {
		t.Error("Expected String to match Render output")
	}
}

func TestRoster(t *testing.T) {
	roster := Roster(sampleTeams())
	if len(roster) != 3 {
		t.Fatalf("Expected 3 teams, got %d", len(roster))
	}
	if roster[0].TeamID != 1 || roster[0].MemberCount != 2 {
		t.Errorf("Unexpected first team: %+v", roster[0])
	}
	m := roster[0].Members[1]
	if m.Name != "Bo Lin" || m.Email != "b@x.com" || m.Nationality != "Taiwanese" || m.Field != "Engineering" || m.ParticipantID != 3 {
		t.Errorf("Unexpected member: %+v", m)
	}
	if !reflect.DeepEqual(roster[0].Fields, []string{"Biology", "Engineering"}) {
		t.Errorf("Unexpected fields %v", roster[0].Fields)
	}
	if !reflect.DeepEqual(roster[0].Nationalities, []string{"Indian", "Taiwanese"}) {
		t.Errorf("Unexpected nationalities %v", roster[0].Nationalities)
	}
	if len(roster[2].Members) != 0 {
		t.Errorf("Expected empty team to have no members, got %d", len(roster[2].Members))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTeams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[1] != "1,0,Asha,Rao,a@x.com,Indian,Biology" {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
}
