package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Kaua3045/ecommerce-users/internal/infra/app"
	"github.com/Kaua3045/ecommerce-users/internal/infra/config"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init users service: %v", err)
	}

	if err := users.Run(ctx); err != nil {
		log.Printf("users service stopped: %v", err)
		os.Exit(1)
	}
}
