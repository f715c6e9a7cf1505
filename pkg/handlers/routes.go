package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Register mounts every route on r
func (h *Handler) Register(r *gin.Engine) {
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Team Former API",
			"version": Version,
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.GET("/runs", h.ListRuns)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/teams", h.FormTeamsJSON)
		api.POST("/teams/csv", h.FormTeamsCSV)
		api.POST("/teams/notify", h.FormTeamsNotify)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}
}
