package main

import (
	"os"

	"github.com/arnavshah/team-former-api-go/pkg/auth"
	"github.com/arnavshah/team-former-api-go/pkg/config"
	"github.com/arnavshah/team-former-api-go/pkg/database"
	"github.com/arnavshah/team-former-api-go/pkg/handlers"
	"github.com/arnavshah/team-former-api-go/pkg/notify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.RequireSecrets(); err != nil {
		logger.Fatal("refusing to start without signing secrets", zap.Error(err))
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if created, err := auth.EnsureAdminExists(db, cfg); err != nil {
		logger.Error("failed to ensure admin user", zap.Error(err))
	} else if created {
		logger.Info("default admin user created", zap.String("username", cfg.AdminUsername))
	}

	var notifier notify.Notifier
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPNotifier(cfg)
		logger.Info("mail delivery enabled", zap.String("host", cfg.SMTPHost))
	}

	h := handlers.NewHandler(db, cfg, notifier, logger)

	r := gin.Default()
	h.Register(r)

	logger.Info("server starting", zap.String("port", cfg.Port), zap.Int("team_size", cfg.TeamSize))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
