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
	"github.com/repairtrack-api/internal/config"
	"github.com/repairtrack-api/internal/infrastructure/dynamo"
	"github.com/repairtrack-api/internal/infrastructure/identity"
	jwtinfra "github.com/repairtrack-api/internal/infrastructure/jwt"
	s3infra "github.com/repairtrack-api/internal/infrastructure/s3"
	"github.com/repairtrack-api/internal/infrastructure/sns"
	"github.com/repairtrack-api/internal/push/apns"
	"github.com/repairtrack-api/internal/push/fcm"
	transporthttp "github.com/repairtrack-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	// Service-account credentials back both the identity provider client and
	// the FCM sender.
	saJSON, err := os.ReadFile(cfg.GoogleCredentialsPath)
	if err != nil {
		log.Fatalf("read service account credentials: %v", err)
	}
	identityClient, err := identity.NewClient(ctx, saJSON)
	if err != nil {
		log.Fatalf("identity client: %v", err)
	}
	fcmClient, err := fcm.NewClient(ctx, saJSON)
	if err != nil {
		log.Fatalf("fcm client: %v", err)
	}

	// APNS provider (optional — Apple-less deployments run FCM only).
	var apnsProvider *apns.Provider
	if keyBytes, err := os.ReadFile(cfg.APNSKeyPath); err == nil {
		p, err := apns.NewProvider(apns.Config{
			SigningKey: keyBytes,
			KeyID:      cfg.APNSKeyID,
			TeamID:     cfg.APNSTeamID,
			Topic:      cfg.APNSTopic,
			Production: cfg.APNSProduction,
		})
		if err != nil {
			log.Fatalf("apns provider: %v", err)
		}
		apnsProvider = p
	} else {
		log.Printf("WARN: APNS signing key not available, apple pushes disabled: %v", err)
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 image store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.AWSRegion)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:     dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		RepairRepo:   dynamo.NewRepairRepo(dynamoClient, cfg.DynamoTables.Repairs),
		Identity:     identityClient,
		FCMClient:    fcmClient,
		APNSProvider: apnsProvider,
		S3Store:      s3Store,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
