// Package intake turns spreadsheet rows into typed participants.
package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arnavshah/team-former-api-go/pkg/models"
	"github.com/arnavshah/team-former-api-go/pkg/nationality"
)

// ErrMissingColumn is returned when a header lacks a required column
var ErrMissingColumn = errors.New("missing column")

// Row is one spreadsheet row. A cell past the end of the row reads as empty.
type Row []string

// Cell returns the value at index i as read, or "" when the row is too short
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// present reports whether the identity cell holds anything but whitespace
func (r Row) present(l Layout) bool {
	return strings.TrimSpace(r.Cell(l.Identity)) != ""
}

// Layout holds the zero-indexed column positions of the participant fields
type Layout struct {
	Identity    int
	Email       int
	FirstName   int
	LastName    int
	Nationality int
	Field       int
}

// DefaultLayout matches the registration form export
var DefaultLayout = Layout{
	Identity:    0,
	Email:       1,
	FirstName:   2,
	LastName:    9,
	Nationality: 22,
	Field:       24,
}

// Header names accepted by LayoutFromHeader, first alias preferred
var headerAliases = map[string][]string{
	"identity":    {"id", "timestamp"},
	"email":       {"email", "email address"},
	"first_name":  {"first_name", "first name"},
	"last_name":   {"last_name", "last name"},
	"nationality": {"nationality"},
	"field":       {"field", "track"},
}

// LayoutFromHeader resolves column positions by header name (case-insensitive)
func LayoutFromHeader(header []string) (Layout, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[key]; !ok {
			cols[key] = i
		}
	}

	find := func(name string) (int, error) {
		for _, alias := range headerAliases[name] {
			if i, ok := cols[alias]; ok {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}

	var l Layout
	var err error
	targets := []struct {
		name string
		dst  *int
	}{
		{"identity", &l.Identity},
		{"email", &l.Email},
		{"first_name", &l.FirstName},
		{"last_name", &l.LastName},
		{"nationality", &l.Nationality},
		{"field", &l.Field},
	}
	for _, tgt := range targets {
		if *tgt.dst, err = find(tgt.name); err != nil {
			return Layout{}, err
		}
	}
	return l, nil
}

// ReadCSV reads every record from r. Ragged rows are allowed.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, Row(record))
	}
	return rows, nil
}

// Participants converts rows into participants. Rows with an empty identity
// cell are skipped; a kept participant's ID is its position among all rows.
func Participants(rows []Row, layout Layout) []models.Participant {
	result := make([]models.Participant, 0, len(rows))
	for i, row := range rows {
		// Exporters pad the sheet with blank rows.
		if !row.present(layout) {
			continue
		}
		result = append(result, models.Participant{
			ID:          i,
			Field:       row.Cell(layout.Field),
			Nationality: nationality.Normalize(row.Cell(layout.Nationality)),
			FirstName:   row.Cell(layout.FirstName),
			LastName:    row.Cell(layout.LastName),
			Email:       row.Cell(layout.Email),
		})
	}
	return result
}

// CountPresent returns the number of rows with a non-empty identity cell
func CountPresent(rows []Row, layout Layout) int {
	count := 0
	for _, row := range rows {
		if row.present(layout) {
			count++
		}
	}
	return count
}

// FromInputs builds participants from pre-typed JSON input, assigning IDs by position
func FromInputs(inputs []models.ParticipantInput) []models.Participant {
	result := make([]models.Participant, 0, len(inputs))
	for i, in := range inputs {
		result = append(result, models.Participant{
			ID:          i,
			Field:       strings.TrimSpace(in.Field),
			Nationality: nationality.Normalize(in.Nationality),
			FirstName:   strings.TrimSpace(in.FirstName),
			LastName:    strings.TrimSpace(in.LastName),
			Email:       strings.TrimSpace(in.Email),
		})
	}
	return result
}

// ToRows converts raw JSON cells into rows
func ToRows(cells [][]string) []Row {
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row(c)
	}
	return rows
}
