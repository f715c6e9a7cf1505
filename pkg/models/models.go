package models

// Participant represents one roster entry. It is never mutated after intake.
type Participant struct {
	ID          int    `json:"id"`
	Field       string `json:"field"`
	Nationality string `json:"nationality"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
}

// FullName joins first and last name
func (p Participant) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Team represents a fixed-capacity bucket of participants. Members are kept in admission order.
type Team struct {
	ID      int           `json:"id"`
	Members []Participant `json:"members"`
}

// Fields returns the member fields in admission order
func (t *Team) Fields() []string {
	result := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		result = append(result, m.Field)
	}
	return result
}

// Nationalities returns the member nationalities in admission order
func (t *Team) Nationalities() []string {
	result := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		result = append(result, m.Nationality)
	}
	return result
}

// MemberCount returns the number of members on the team
func (t *Team) MemberCount() int {
	return len(t.Members)
}

// CountField returns how many members have the given field
func (t *Team) CountField(field string) int {
	n := 0
	for _, m := range t.Members {
		if m.Field == field {
			n++
		}
	}
	return n
}

// CountNationality returns how many members have the given nationality
func (t *Team) CountNationality(nationality string) int {
	n := 0
	for _, m := range t.Members {
		if m.Nationality == nationality {
			n++
		}
	}
	return n
}

// Member is the machine-readable view of a team member handed to downstream consumers
type Member struct {
	ParticipantID int    `json:"participant_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Nationality   string `json:"nationality"`
	Field         string `json:"field"`
}

// TeamRoster is the machine-readable view of a formed team
type TeamRoster struct {
	TeamID        int      `json:"team_id"`
	MemberCount   int      `json:"member_count"`
	Fields        []string `json:"fields"`
	Nationalities []string `json:"nationalities"`
	Members       []Member `json:"members"`
}

// ParticipantInput is a pre-typed participant supplied in a JSON request
type ParticipantInput struct {
	Field       string `json:"field"`
	Nationality string `json:"nationality"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
}

// FormTeamsInput is the data structure for the team formation endpoint.
// Either Rows (raw tabular cells, read with the default column layout) or
// Participants may be supplied; Rows wins when both are present.
type FormTeamsInput struct {
	TeamSize     int                `json:"team_size"`
	Rows         [][]string         `json:"rows,omitempty"`
	Participants []ParticipantInput `json:"participants,omitempty"`
}

// FormTeamsResponse is the data structure for the team formation result
type FormTeamsResponse struct {
	TeamSize  int           `json:"team_size"`
	Rounds    int           `json:"rounds"`
	Teams     []TeamRoster  `json:"teams"`
	Unplaced  []Participant `json:"unplaced"`
	FillScore float64       `json:"fill_score"`
	Report    string        `json:"report"`
}
