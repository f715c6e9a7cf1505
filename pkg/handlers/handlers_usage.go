package handlers

import (
	"net/http"

	"github.com/arnavshah/team-former-api-go/pkg/database"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKey, ok := apiKeyFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		h.Log.Error("fetch usage failed", zap.Uint("key", apiKey.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var totalRequests, totalParticipants, totalTeams int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalParticipants += int64(u.TotalParticipants)
		totalTeams += int64(u.TotalTeams)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests":     totalRequests,
			"participants": totalParticipants,
			"teams":        totalTeams,
		},
	})
}
