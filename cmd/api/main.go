package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pocketledger/alerts/internal/application/dispatch"
	"github.com/pocketledger/alerts/internal/application/preference"
	"github.com/pocketledger/alerts/internal/application/processor"
	"github.com/pocketledger/alerts/internal/config"
	"github.com/pocketledger/alerts/internal/infrastructure/dynamo"
	"github.com/pocketledger/alerts/internal/infrastructure/email"
	jwtinfra "github.com/pocketledger/alerts/internal/infrastructure/jwt"
	"github.com/pocketledger/alerts/internal/infrastructure/push"
	"github.com/pocketledger/alerts/internal/infrastructure/sms"
	transporthttp "github.com/pocketledger/alerts/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT verifier is optional: auth middleware is disabled if keys are missing.
	var verifier *jwtinfra.Verifier
	if v, err := jwtinfra.NewVerifier(cfg); err == nil {
		verifier = v
	} else {
		log.Printf("WARN: JWT verifier not available: %v", err)
	}

	patternRepo := dynamo.NewPatternRepo(dynamoClient, cfg.DynamoTables.SpendingPatterns)
	notifRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	prefRepo := dynamo.NewPreferenceRepo(dynamoClient, cfg.DynamoTables.Preferences)
	subRepo := dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.PushSubscriptions)
	userDir := dynamo.NewUserDirectory(dynamoClient, cfg.DynamoTables.Users)

	// Channel providers fall back to console when credentials are missing.
	dispatcher := dispatch.NewService(dispatch.Deps{
		Email:         email.New(cfg.Email),
		SMS:           sms.New(cfg.SMS),
		Push:          push.New(cfg.Push),
		Directory:     userDir,
		Subscriptions: subRepo,
		Store:         notifRepo,
	})

	prefSvc := preference.NewService(prefRepo)
	proc := processor.New(notifRepo, prefSvc, dispatcher, cfg.ProcessorInterval, cfg.ProcessorLeaseTTL)

	procCtx, stopProc := context.WithCancel(context.Background())
	go proc.Start(procCtx)

	deps := &transporthttp.Deps{
		PatternRepo:      patternRepo,
		NotificationRepo: notifRepo,
		PreferenceRepo:   prefRepo,
		SubscriptionRepo: subRepo,
		Verifier:         verifier,
		Processor:        proc,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopProc()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
