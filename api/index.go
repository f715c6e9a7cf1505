package handler

import (
	"net/http"

	"github.com/arnavshah/team-former-api-go/pkg/auth"
	"github.com/arnavshah/team-former-api-go/pkg/config"
	"github.com/arnavshah/team-former-api-go/pkg/database"
	"github.com/arnavshah/team-former-api-go/pkg/handlers"
	"github.com/arnavshah/team-former-api-go/pkg/notify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var r *gin.Engine

func init() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.RequireSecrets(); err != nil {
		logger.Fatal("refusing to start without signing secrets", zap.Error(err))
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if _, err := auth.EnsureAdminExists(db, cfg); err != nil {
		logger.Error("failed to ensure admin user", zap.Error(err))
	}

	var notifier notify.Notifier
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPNotifier(cfg)
	}

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	handlers.NewHandler(db, cfg, notifier, logger).Register(r)
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
