package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/arnavshah/team-former-api-go/pkg/models"
)

// byID returns a copy of teams ordered by team ID
func byID(teams []*models.Team) []*models.Team {
	sorted := append([]*models.Team(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Render writes a human-readable roster, one block per team in ID order
func Render(w io.Writer, teams []*models.Team) error {
	for _, team := range byID(teams) {
		if _, err := fmt.Fprintf(w, "Team ID: %d\nMember count: %d\n", team.ID, team.MemberCount()); err != nil {
			return err
		}
		for _, m := range team.Members {
			if _, err := fmt.Fprintf(w, "- %s\tNationality: %s\tField: %s\n", m.FullName(), m.Nationality, m.Field); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders teams into a string
func String(teams []*models.Team) string {
	var sb strings.Builder
	_ = Render(&sb, teams)
	return sb.String()
}

// Roster returns the machine-readable team membership in ID order
func Roster(teams []*models.Team) []models.TeamRoster {
	result := make([]models.TeamRoster, 0, len(teams))
	for _, team := range byID(teams) {
		members := make([]models.Member, 0, team.MemberCount())
		for _, m := range team.Members {
			members = append(members, models.Member{
				ParticipantID: m.ID,
				Name:          m.FullName(),
				Email:         m.Email,
				Nationality:   m.Nationality,
				Field:         m.Field,
			})
		}
		result = append(result, models.TeamRoster{
			TeamID:        team.ID,
			MemberCount:   team.MemberCount(),
			Fields:        team.Fields(),
			Nationalities: team.Nationalities(),
			Members:       members,
		})
	}
	return result
}

// WriteCSV writes one row per placed participant
func WriteCSV(w io.Writer, teams []*models.Team) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"team_id", "participant_id", "first_name", "last_name", "email", "nationality", "field"}); err != nil {
		return err
	}

	for _, team := range byID(teams) {
		for _, m := range team.Members {
			if err := writer.Write([]string{
				strconv.Itoa(team.ID),
				strconv.Itoa(m.ID),
				m.FirstName,
				m.LastName,
				m.Email,
				m.Nationality,
				m.Field,
			}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
