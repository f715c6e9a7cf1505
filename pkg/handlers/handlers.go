package handlers

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/team-former-api-go/pkg/allocator"
	"github.com/arnavshah/team-former-api-go/pkg/auth"
	"github.com/arnavshah/team-former-api-go/pkg/config"
	"github.com/arnavshah/team-former-api-go/pkg/database"
	"github.com/arnavshah/team-former-api-go/pkg/intake"
	"github.com/arnavshah/team-former-api-go/pkg/models"
	"github.com/arnavshah/team-former-api-go/pkg/notify"
	"github.com/arnavshah/team-former-api-go/pkg/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed static/*
var staticEmbed embed.FS

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Signer   *auth.Signer
	Notifier notify.Notifier
	Log      *zap.Logger
}

// NewHandler wires a Handler. notifier may be nil when mail is not configured.
func NewHandler(db *gorm.DB, cfg *config.Config, notifier notify.Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		DB:       db,
		Cfg:      cfg,
		Signer:   auth.NewSigner(cfg),
		Notifier: notifier,
		Log:      logger,
	}
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Signer.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key for team formation routes
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Signer.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		// Fetch or create the key record to track usage
		var apiKey database.APIKey
		if err := h.DB.Where(database.APIKey{Key: key}).Attrs(database.APIKey{
			Name:       userID,
			KeyPreview: auth.KeyPreview(key),
			RateLimit:  10000,
		}).FirstOrCreate(&apiKey).Error; err != nil {
			h.Log.Error("api key lookup failed", zap.String("user", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}
		if apiKey.Revoked() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}

		if err := auth.TouchAPIKey(h.DB, &apiKey); err != nil {
			h.Log.Warn("api key touch failed", zap.Uint("key", apiKey.ID), zap.Error(err))
		}

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// teamSize resolves the requested size, falling back to the configured default
func (h *Handler) teamSize(requested int) int {
	if requested != 0 {
		return requested
	}
	return h.Cfg.TeamSize
}

// form runs the allocator over participants
func (h *Handler) form(participants []models.Participant, teamSize int) (*allocator.Result, error) {
	a, err := allocator.New(participants, teamSize,
		allocator.WithLogger(h.Log),
		allocator.WithMaxRounds(h.Cfg.MaxRounds))
	if err != nil {
		return nil, err
	}
	return a.Run()
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, allocator.ErrInvalidTeamSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Log.Error("team formation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func participantsFromInput(input *models.FormTeamsInput) []models.Participant {
	if len(input.Rows) > 0 {
		return intake.Participants(intake.ToRows(input.Rows), intake.DefaultLayout)
	}
	return intake.FromInputs(input.Participants)
}

func formResponse(res *allocator.Result) models.FormTeamsResponse {
	unplaced := res.Unplaced
	if unplaced == nil {
		unplaced = []models.Participant{}
	}
	return models.FormTeamsResponse{
		TeamSize:  res.TeamSize,
		Rounds:    res.Rounds,
		Teams:     report.Roster(res.Teams),
		Unplaced:  unplaced,
		FillScore: res.FillScore(),
		Report:    report.String(res.Teams),
	}
}

// FormTeamsJSON handles the JSON-based team formation request
func (h *Handler) FormTeamsJSON(c *gin.Context) {
	var input models.FormTeamsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participants := participantsFromInput(&input)
	res, err := h.form(participants, h.teamSize(input.TeamSize))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(participants), len(res.Teams))
	h.RecordRun(c, len(participants), res)

	c.JSON(http.StatusOK, formResponse(res))
}

// FormTeamsCSV handles a participant CSV upload
func (h *Handler) FormTeamsCSV(c *gin.Context) {
	fileHeader, _ := c.FormFile("participants_file")
	if fileHeader == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participants_file is required"})
		return
	}

	requested := 0
	if v := c.PostForm("team_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "team_size must be an integer"})
			return
		}
		requested = n
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open participants file"})
		return
	}
	defer f.Close()

	rows, err := intake.ReadCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	layout := intake.DefaultLayout
	if c.PostForm("header") == "true" {
		if len(rows) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read participants header"})
			return
		}
		if layout, err = intake.LayoutFromHeader(rows[0]); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rows = rows[1:]
	}

	participants := intake.Participants(rows, layout)
	res, err := h.form(participants, h.teamSize(requested))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(participants), len(res.Teams))
	h.RecordRun(c, len(participants), res)

	var out strings.Builder
	if err := report.WriteCSV(&out, res.Teams); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write CSV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"csv":      out.String(),
		"report":   report.String(res.Teams),
		"rounds":   res.Rounds,
		"unplaced": len(res.Unplaced),
	})
}

// FormTeamsNotify forms teams and emails every team its roster
func (h *Handler) FormTeamsNotify(c *gin.Context) {
	if h.Notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Mail delivery is not configured"})
		return
	}

	var input models.FormTeamsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participants := participantsFromInput(&input)
	res, err := h.form(participants, h.teamSize(input.TeamSize))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(participants), len(res.Teams))
	h.RecordRun(c, len(participants), res)

	resp := formResponse(res)
	sent, err := notify.NotifyTeams(c.Request.Context(), h.Notifier, resp.Teams, h.Log)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "teams_notified": sent, "result": resp})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams_notified": sent, "result": resp})
}

func apiKeyFrom(c *gin.Context) (*database.APIKey, bool) {
	raw, exists := c.Get("apiKey")
	if !exists {
		return nil, false
	}
	apiKey, ok := raw.(*database.APIKey)
	return apiKey, ok
}

// RecordUsage records API usage with a single-query upsert
func (h *Handler) RecordUsage(c *gin.Context, participantCount, teamCount int) {
	apiKey, ok := apiKeyFrom(c)
	if !ok {
		return
	}

	today := time.Now().Format("2006-01-02")

	// OnConflict works for both Postgres and SQLite
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":      gorm.Expr("request_count + ?", 1),
			"total_participants": gorm.Expr("total_participants + ?", participantCount),
			"total_teams":        gorm.Expr("total_teams + ?", teamCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:             apiKey.ID,
		Date:              today,
		RequestCount:      1,
		TotalParticipants: participantCount,
		TotalTeams:        teamCount,
	}).Error
	if err != nil {
		h.Log.Warn("record usage failed", zap.Uint("key", apiKey.ID), zap.Error(err))
	}
}

// RecordRun stores a summary of an allocation run
func (h *Handler) RecordRun(c *gin.Context, participantCount int, res *allocator.Result) {
	apiKey, ok := apiKeyFrom(c)
	if !ok {
		return
	}

	short := 0
	for _, t := range res.Teams {
		if t.MemberCount() < res.TeamSize {
			short++
		}
	}

	run := database.AllocationRun{
		KeyID:        apiKey.ID,
		TeamSize:     res.TeamSize,
		Participants: participantCount,
		Teams:        len(res.Teams),
		ShortTeams:   short,
		Unplaced:     len(res.Unplaced),
		Rounds:       res.Rounds,
		FillScore:    res.FillScore(),
	}
	if err := h.DB.Create(&run).Error; err != nil {
		h.Log.Warn("record run failed", zap.Uint("key", apiKey.ID), zap.Error(err))
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Signer.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new HMAC API key
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		RateLimit int    `json:"rate_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if req.RateLimit == 0 {
		req.RateLimit = 10000
	}

	key := h.Signer.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
		RateLimit:  req.RateLimit,
	}
	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Find(&keys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list keys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey marks an API key as revoked. The row is kept so the signed key
// cannot be re-registered by the API key middleware.
func (h *Handler) RevokeKey(c *gin.Context) {
	id := c.Param("id")
	res := h.DB.Model(&database.APIKey{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now())
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not revoke key"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// Try JSON first, then query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit is required"})
			return
		}
	}
	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate limit"})
		return
	}

	if err := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id := c.Param("id")
	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// ListRuns returns the most recent allocation runs
func (h *Handler) ListRuns(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}

	var runs []database.AllocationRun
	if err := h.DB.Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
