package handlers

import (
	"net/http"

	"github.com/arnavshah/team-former-api-go/pkg/allocator"
	"github.com/arnavshah/team-former-api-go/pkg/intake"
	"github.com/arnavshah/team-former-api-go/pkg/models"
	"github.com/arnavshah/team-former-api-go/pkg/nationality"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a formation request without running the allocator
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.FormTeamsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	teamSize := h.teamSize(input.TeamSize)
	if teamSize <= 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": allocator.ErrInvalidTeamSize.Error()})
		return
	}

	participants := participantsFromInput(&input)
	if len(participants) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one participant is required",
		})
		return
	}

	blank := 0
	if len(input.Rows) > 0 {
		blank = len(input.Rows) - intake.CountPresent(intake.ToRows(input.Rows), intake.DefaultLayout)
	}

	// Unmapped nationalities are kept for manual review, not rejected
	unmapped := []string{}
	seen := make(map[string]bool)
	for _, p := range participants {
		if !nationality.IsCanonical(p.Nationality) && !seen[p.Nationality] {
			seen[p.Nationality] = true
			unmapped = append(unmapped, p.Nationality)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"participant_count":      len(participants),
			"blank_rows":             blank,
			"team_size":              teamSize,
			"team_count":             (len(participants) + teamSize) / teamSize,
			"unmapped_nationalities": unmapped,
		},
	})
}
