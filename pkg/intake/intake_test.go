package intake

import (
	"errors"
	"strings"
	"testing"

	"github.com/arnavshah/team-former-api-go/pkg/nationality"
)

// row builds a row wide enough for DefaultLayout
func row(identity, email, first, last, nat, field string) Row {
	r := make(Row, 25)
	r[DefaultLayout.Identity] = identity
	r[DefaultLayout.Email] = email
	r[DefaultLayout.FirstName] = first
	r[DefaultLayout.LastName] = last
	r[DefaultLayout.Nationality] = nat
	r[DefaultLayout.Field] = field
	return r
}

func TestParticipants_SkipsBlankRows(t *testing.T) {
	rows := []Row{
		row("2024-01-01", "a@x.com", "Asha", "Rao", "India", "Biology"),
		row("2024-01-02", "b@x.com", "Bo", "Lin", "Taiwan", "Engineering"),
		row("", "", "", "", "", ""),
		row("2024-01-03", "c@x.com", "Chen", "Wei", "China", "Physics"),
		row("2024-01-04", "d@x.com", "Dana", "Smith", "USA", "Chemistry"),
	}

	got := Participants(rows, DefaultLayout)
	if len(got) != 4 {
		t.Fatalf("Expected 4 participants, got %d", len(got))
	}

	wantIDs := []int{0, 1, 3, 4}
	for i, p := range got {
		if p.ID != wantIDs[i] {
			t.Errorf("participant %d: expected ID %d, got %d", i, wantIDs[i], p.ID)
		}
	}

	if got[0].Nationality != nationality.Indian {
		t.Errorf("Expected normalized nationality Indian, got %q", got[0].Nationality)
	}
	if got[1].Field != "Engineering" || got[1].FirstName != "Bo" || got[1].LastName != "Lin" || got[1].Email != "b@x.com" {
		t.Errorf("Unexpected participant fields: %+v", got[1])
	}
}

func TestParticipants_ShortRowsKeepMissingValues(t *testing.T) {
	rows := []Row{{"2024-01-01", "a@x.com"}}

	got := Participants(rows, DefaultLayout)
	if len(got) != 1 {
		t.Fatalf("Expected 1 participant, got %d", len(got))
	}
	if got[0].FirstName != "" || got[0].Field != "" {
		t.Errorf("Expected empty name and field, got %+v", got[0])
	}
	if got[0].Nationality != "OTHER: " {
		t.Errorf("Expected OTHER fallback, got %q", got[0].Nationality)
	}
}

func TestParticipants_KeepsValuesAsRead(t *testing.T) {
	rows := []Row{
		row(" ", "a@x.com", "Asha", "Rao", "India", "Biology"),
		row("2024-01-02", " b@x.com ", " Bo", "Lin ", " Taiwan ", "Engineering "),
	}

	got := Participants(rows, DefaultLayout)
	if len(got) != 1 {
		t.Fatalf("Expected whitespace-only identity to be skipped, got %d participants", len(got))
	}
	p := got[0]
	if p.ID != 1 {
		t.Errorf("Expected ID 1, got %d", p.ID)
	}
	if p.Email != " b@x.com " || p.FirstName != " Bo" || p.LastName != "Lin " || p.Field != "Engineering " {
		t.Errorf("Expected names, email and field stored as read, got %+v", p)
	}
	if p.Nationality != nationality.Taiwanese {
		t.Errorf("Expected normalized nationality Taiwanese, got %q", p.Nationality)
	}
}

func TestCountPresent(t *testing.T) {
	rows := []Row{{"x"}, {""}, {"  "}, {"y"}, {}}
	if got := CountPresent(rows, DefaultLayout); got != 2 {
		t.Errorf("Expected 2 present rows, got %d", got)
	}
}

func TestLayoutFromHeader(t *testing.T) {
	header := []string{"Timestamp", "Email Address", "First Name", "Last Name", "Nationality", "Field"}
	l, err := LayoutFromHeader(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Layout{Identity: 0, Email: 1, FirstName: 2, LastName: 3, Nationality: 4, Field: 5}
	if l != want {
		t.Errorf("Expected %+v, got %+v", want, l)
	}
}

func TestLayoutFromHeader_MissingColumn(t *testing.T) {
	_, err := LayoutFromHeader([]string{"id", "email", "first_name", "last_name", "nationality"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "field") {
		t.Errorf("Expected error to name the field column, got %q", err.Error())
	}
}

func TestReadCSV_Ragged(t *testing.T) {
	data := "id,email,first_name\n1,a@x.com,Asha\n,\n2,b@x.com,Bo,extra\n"
	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[3].Cell(3) != "extra" {
		t.Errorf("Expected ragged cell to be kept, got %q", rows[3].Cell(3))
	}
	if rows[2].Cell(2) != "" {
		t.Errorf("Expected missing cell to read empty, got %q", rows[2].Cell(2))
	}
}

func TestFromInputs(t *testing.T) {
	got := FromInputs(nil)
	if len(got) != 0 {
		t.Errorf("Expected no participants, got %d", len(got))
	}
}
