package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/hellonmn/evenose-sub000/config"
	_ "github.com/hellonmn/evenose-sub000/docs"
	"github.com/hellonmn/evenose-sub000/internal/hackathon"
	"github.com/hellonmn/evenose-sub000/internal/notification"
	"github.com/hellonmn/evenose-sub000/internal/team"
	"github.com/hellonmn/evenose-sub000/internal/user"
	"github.com/hellonmn/evenose-sub000/pkg/logger"
	"github.com/hellonmn/evenose-sub000/routes"
)

// @title Evenose REST API
// @version 1.0
// @description Hackathon event management server: events, teams, approvals, judging.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	err = config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&hackathon.Hackathon{}, &hackathon.Round{},
		&hackathon.Coordinator{}, &hackathon.Judge{},
		&team.Team{}, &team.TeamMember{}, &team.JoinRequest{},
		&team.Submission{}, &team.Score{},
	)
	if err != nil {
		zlog.Fatal("AutoMigrate failed", zap.Error(err))
	}
	zlog.Info("AutoMigrate successful")

	notifier := notification.NewMailer(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.Sender, zlog)

	r := routes.SetupRoutes(config.DB, cfg, notifier, zlog)

	zlog.Info("Starting server",
		zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
	if err := r.Run(":" + cfg.App.Port); err != nil {
		zlog.Fatal("Failed to run server", zap.Error(err))
	}
}
