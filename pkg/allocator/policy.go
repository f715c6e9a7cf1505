package allocator

import (
	"github.com/arnavshah/team-former-api-go/pkg/models"
	"github.com/arnavshah/team-former-api-go/pkg/nationality"
)

// EngineeringField is the one field allowed to cluster in TierCluster
const EngineeringField = "Engineering"

// Tier is an admission policy level. Higher tiers are more permissive.
type Tier int

const (
	// TierSeed admits Indian participants up to two per team
	TierSeed Tier = iota
	// TierDistinct admits only a new field and a new nationality
	TierDistinct
	// TierCluster admits Engineering up to four per team
	TierCluster
	// TierRelaxed tolerates up to five sharing a field or a nationality
	TierRelaxed
	// TierAny admits anyone
	TierAny
)

func (t Tier) String() string {
	switch t {
	case TierSeed:
		return "seed"
	case TierDistinct:
		return "distinct"
	case TierCluster:
		return "cluster"
	case TierRelaxed:
		return "relaxed"
	case TierAny:
		return "any"
	}
	return "unknown"
}

// TierFor returns the tier active in round
func TierFor(round int) Tier {
	switch {
	case round <= 5:
		return TierSeed
	case round <= 10:
		return TierDistinct
	case round <= 15:
		return TierCluster
	case round <= 20:
		return TierRelaxed
	default:
		return TierAny
	}
}

// Admit reports whether participant should join team in the given round
func Admit(team *models.Team, participant models.Participant, teamSize, round int) bool {
	if team.MemberCount() >= teamSize {
		return false
	}

	switch TierFor(round) {
	case TierSeed:
		return participant.Nationality == nationality.Indian &&
			team.CountNationality(nationality.Indian) <= 1
	case TierDistinct:
		return team.CountField(participant.Field) == 0 &&
			team.CountNationality(participant.Nationality) == 0
	case TierCluster:
		return participant.Field == EngineeringField &&
			team.CountField(EngineeringField) <= 3
	case TierRelaxed:
		return team.CountField(participant.Field) <= 4 ||
			team.CountNationality(participant.Nationality) <= 4
	default:
		return true
	}
}
