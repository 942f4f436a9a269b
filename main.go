package main

import (
	"context"
	"errors"
	"os"

	"gatepass/api"
	"gatepass/db"
	"gatepass/service/credential"
	"gatepass/service/mail"
	"gatepass/service/notify"
	"gatepass/service/pricing"
	"gatepass/service/security"
	"gatepass/service/ticketing"
	"gatepass/service/uploader"
	"gatepass/service/worker"
	"gatepass/util"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// @title        Gatepass API
// @version      1.0
// @description  Ticket issuance, review and gate admission for a live event.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
func main() {
	// Load config
	config, err := util.LoadConfig(".env")
	if err != nil {
		util.LOGGER.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	// Connect to database and Redis
	queries := db.NewQueries()
	if err := queries.ConnectDB(config.DbConn); err != nil {
		util.LOGGER.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}

	// Run database migration
	if err := queries.AutoMigration(); err != nil {
		util.LOGGER.Error("Error running auto migration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := queries.ConnectRedis(ctx, &redis.Options{Addr: config.RedisAddr}); err != nil {
		util.LOGGER.Error("Error connecting to Redis", "error", err)
		os.Exit(1)
	}

	if err := ensureAdmin(ctx, queries, config); err != nil {
		util.LOGGER.Error("Error creating admin", "error", err)
		os.Exit(1)
	}

	// Ticketing dependencies
	prices, err := pricing.Load(config.PricingFile)
	if err != nil {
		util.LOGGER.Error("Error loading pricing schedule", "file", config.PricingFile, "error", err)
		os.Exit(1)
	}

	var background *credential.Background
	if config.CredentialBackground != "" {
		background = credential.NewBackground(config.CredentialBackground, config.BackgroundTTL)
	}

	mailService := mail.NewEmailService(config.SMTPHost, config.SMTPPort, config.Email, config.AppPassword)
	notifier := notify.NewEmailNotifier(mailService, config.EventName)

	deps := ticketing.Dependencies{
		Store:       queries,
		Pricing:     prices,
		Issuer:      credential.NewIssuer(config.VerifyURL, background),
		Notifier:    notifier,
		EventName:   config.EventName,
		MaxQuantity: config.MaxTicketQuantity,
		MaxAttempts: config.AdmitMaxAttempts,
	}

	// Uploads and the gate feed are optional, credentials fall back to inline images
	if cld, err := uploader.NewCld(config.CloudStorageName, config.CloudStorageKey, config.CloudStorageSecret); err == nil {
		deps.Artifacts = cld
	} else {
		util.LOGGER.Warn("Cloudinary disabled, credentials will be sent inline", "error", err)
	}

	if config.AblyApiKey != "" {
		feed, err := notify.NewAblyService(config.AblyApiKey)
		if err != nil {
			util.LOGGER.Error("Error connecting to Ably", "error", err)
			os.Exit(1)
		}
		deps.Feed = feed
	}

	tickets := ticketing.NewService(deps)

	// Background workers
	redisOpts := asynq.RedisClientOpt{Addr: config.RedisAddr}
	distributor := worker.NewRedisTaskDistributor(redisOpts)
	defer distributor.Close()

	processor := worker.NewRedisTaskProcessor(redisOpts, config.MaxWorkers, queries, notifier, tickets)
	if err := processor.Start(); err != nil {
		util.LOGGER.Error("Error starting background processor", "error", err)
		os.Exit(1)
	}
	defer processor.Shutdown()

	// Start server
	jwtService := security.NewJWTService([]byte(config.SecretKey), config.TokenExpiration)
	server := api.NewServer(config, queries, jwtService, tickets, distributor)
	if err := server.Start(); err != nil {
		util.LOGGER.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

// Create the configured operator on first start
func ensureAdmin(ctx context.Context, queries *db.Queries, config *util.Config) error {
	if config.AdminUsername == "" || config.AdminPassword == "" {
		return nil
	}

	_, err := queries.GetAdminByUsername(ctx, config.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrAdminNotFound) {
		return err
	}

	hash, err := security.BcryptHash(config.AdminPassword)
	if err != nil {
		return err
	}

	err = queries.CreateAdmin(ctx, &db.Admin{
		Username:     config.AdminUsername,
		PasswordHash: hash,
		EventKey:     config.AdminEventKey,
	})
	if err != nil {
		return err
	}

	util.LOGGER.Info("Admin created", "username", config.AdminUsername, "event_key", config.AdminEventKey)
	return nil
}
