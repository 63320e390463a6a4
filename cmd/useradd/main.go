package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/rezkam/listor/internal/application/auth"
	"github.com/rezkam/listor/internal/config"
	"github.com/rezkam/listor/internal/infrastructure/persistence/postgres"
)

// Command-line tool to create an account directly in the database.
// THIS is not a production-grade tool, just a simple utility for
// development/testing purposes.
func main() {
	email := flag.String("email", "", "Email address for the account (required)")
	name := flag.String("name", "", "Display name for the account (required)")
	password := flag.String("password", "", "Password for the account (required)")

	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		flag.Usage()
		log.Fatal("email, name, and password are required")
	}

	_ = godotenv.Load()

	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	authenticator := auth.NewAuthenticator(ctx, store, auth.Config{
		TokenSecret: cfg.Auth.TokenSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := authenticator.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shutdown authenticator: %v", err)
		}
	}()

	user, _, err := authenticator.Register(ctx, *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to create account: %v", err)
	}

	fmt.Println("Account created:")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Name:  %s\n", user.DisplayName)
}
