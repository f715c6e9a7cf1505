package allocator

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/arnavshah/team-former-api-go/pkg/models"
	"go.uber.org/zap"
)

var (
	// ErrInvalidTeamSize is returned when the team size is not positive
	ErrInvalidTeamSize = errors.New("team size must be greater than zero")
	// ErrRoundLimit is returned when allocation runs past the round cap
	ErrRoundLimit = errors.New("allocation exceeded round limit")
)

// DefaultMaxRounds caps a run. The catch-all tier starts at round 21, so a
// healthy run never gets near it.
const DefaultMaxRounds = 500

// Allocator assigns participants to teams one admission per team per round
type Allocator struct {
	TeamSize  int
	Remaining []models.Participant
	Active    []*models.Team
	Completed []*models.Team
	Round     int

	maxRounds int
	log       *zap.Logger
}

// Option configures an Allocator
type Option func(*Allocator)

// WithLogger sets the logger used for progress output
func WithLogger(l *zap.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMaxRounds overrides DefaultMaxRounds. Non-positive values are ignored.
func WithMaxRounds(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxRounds = n
		}
	}
}

// Result is the outcome of a run
type Result struct {
	TeamSize int
	Rounds   int
	Teams    []*models.Team
	Unplaced []models.Participant
}

// NewTeamPool creates (count+size)/size empty teams with ids starting at 1.
// The extra team absorbs the remainder.
// count/size + 1 is the same quantity without overflowing for huge sizes.
func NewTeamPool(participantCount, teamSize int) ([]*models.Team, error) {
	if teamSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamSize, teamSize)
	}
	total := participantCount/teamSize + 1
	teams := make([]*models.Team, 0, total)
	for i := 1; i <= total; i++ {
		teams = append(teams, &models.Team{ID: i, Members: []models.Participant{}})
	}
	return teams, nil
}

// New creates an allocator over participants with a freshly initialised team pool
func New(participants []models.Participant, teamSize int, opts ...Option) (*Allocator, error) {
	teams, err := NewTeamPool(len(participants), teamSize)
	if err != nil {
		return nil, err
	}

	a := &Allocator{
		TeamSize:  teamSize,
		Remaining: append([]models.Participant(nil), participants...),
		Active:    teams,
		maxRounds: DefaultMaxRounds,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run allocates until participants or active teams run out. Teams still
// active at that point are completed as-is, possibly short.
func (a *Allocator) Run() (*Result, error) {
	for {
		if a.Round > a.maxRounds {
			return nil, fmt.Errorf("%w: %d rounds with %d participants left", ErrRoundLimit, a.maxRounds, len(a.Remaining))
		}

		a.pass()

		if len(a.Remaining) == 0 || len(a.Active) == 0 {
			for _, team := range a.Active {
				a.log.Debug("completing short team",
					zap.Int("team", team.ID),
					zap.Int("members", team.MemberCount()))
			}
			a.Completed = append(a.Completed, a.Active...)
			a.Active = nil

			a.log.Info("allocation finished",
				zap.Int("rounds", a.Round+1),
				zap.Int("teams", len(a.Completed)),
				zap.Int("unplaced", len(a.Remaining)))
			break
		}

		a.Round++
		a.log.Debug("new round", zap.Int("round", a.Round), zap.String("tier", TierFor(a.Round).String()))
	}

	return &Result{
		TeamSize: a.TeamSize,
		Rounds:   a.Round + 1,
		Teams:    a.Completed,
		Unplaced: a.Remaining,
	}, nil
}

// pass gives every active team one admission attempt
func (a *Allocator) pass() {
	snapshot := append([]*models.Team(nil), a.Active...)
	stillActive := make([]*models.Team, 0, len(snapshot))

	for _, team := range snapshot {
		if idx := a.candidate(team); idx >= 0 {
			p := a.Remaining[idx]
			team.Members = append(team.Members, p)
			a.Remaining = slices.Delete(a.Remaining, idx, idx+1)
			a.log.Debug("admitted participant",
				zap.Int("team", team.ID),
				zap.Int("participant", p.ID),
				zap.String("nationality", p.Nationality),
				zap.String("field", p.Field),
				zap.Int("remaining", len(a.Remaining)))
		}

		if team.MemberCount() >= a.TeamSize {
			a.Completed = append(a.Completed, team)
			a.log.Debug("team full", zap.Int("team", team.ID), zap.Int("round", a.Round))
			continue
		}
		stillActive = append(stillActive, team)
	}

	a.Active = stillActive
}

// candidate returns the index of the first remaining participant the team admits, or -1
func (a *Allocator) candidate(team *models.Team) int {
	for i, p := range a.Remaining {
		if Admit(team, p, a.TeamSize, a.Round) {
			return i
		}
	}
	return -1
}

// Placed returns how many participants ended up on a team
func (r *Result) Placed() int {
	n := 0
	for _, t := range r.Teams {
		n += t.MemberCount()
	}
	return n
}

// FillScore returns a percentage (0-100) representing how evenly teams are
// filled. 100% means every non-empty team has the same member count.
func (r *Result) FillScore() float64 {
	var counts []float64
	for _, t := range r.Teams {
		if t.MemberCount() > 0 {
			counts = append(counts, float64(t.MemberCount()))
		}
	}
	if len(counts) == 0 {
		return 100.0
	}

	var sum float64
	for _, c := range counts {
		sum += c
	}
	mean := sum / float64(len(counts))

	var varianceSum float64
	for _, c := range counts {
		diff := c - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(counts)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
