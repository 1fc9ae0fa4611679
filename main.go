package main

import (
	"log/slog"
	"os"

	api "outreach-backend/cmd/api"
	accountRepo "outreach-backend/internal/account/repository"
	contactRepo "outreach-backend/internal/contact/repository"
	"outreach-backend/internal/outreach/gateway"
	outreachRepo "outreach-backend/internal/outreach/repository"
	outreachUsecase "outreach-backend/internal/outreach/usecase"
	"outreach-backend/pkg/config"
	"outreach-backend/pkg/database"
	"outreach-backend/pkg/gmail"
	"outreach-backend/pkg/imap"
	"outreach-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize repositories (dependency injection)
	accountRepository := accountRepo.NewAccountRepository(db)
	contactRepository := contactRepo.NewContactRepository(db)
	sendLogRepository := outreachRepo.NewSendLogRepository(db)
	followUpLogRepository := outreachRepo.NewFollowUpLogRepository(db)
	replyLogRepository := outreachRepo.NewReplyLogRepository(db)

	// Mail providers; a nil fetcher disables that provider in the gateway
	var gmailFetcher gateway.GmailFetcher
	if cfg.GmailEnabled() {
		gmailFetcher = gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GmailMaxMessages, log)
	} else {
		log.Warn("Google OAuth client not configured, Gmail retrieval disabled")
	}
	imapFetcher := imap.NewService(cfg.IMAPDialTimeout, log)

	retrievalGateway := gateway.NewAccountGateway(accountRepository, gmailFetcher, imapFetcher, log)

	// Initialize use cases (dependency injection)
	outreachUc := outreachUsecase.NewOutreachUsecase(
		sendLogRepository,
		followUpLogRepository,
		replyLogRepository,
		contactRepository,
		accountRepository,
		retrievalGateway,
		outreachUsecase.Options{
			GraceWindow:    cfg.FollowUpGraceWindow,
			GatewayTimeout: cfg.GatewayTimeout,
		},
		log,
	)

	// Initialize HTTP handler and start server
	handler := api.NewHandler(outreachUc, cfg, log)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
