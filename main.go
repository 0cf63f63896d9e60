package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"paxboard/internal/config"
	"paxboard/internal/container"
	"paxboard/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.OpenDatabase(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// A failing source is reported per request and retried on the next one.
	if err := appContainer.Warm(ctx); err != nil {
		appContainer.Logger.Error("initial load failed: %v", err)
	}
	if err := appContainer.StartBackground(); err != nil {
		log.Fatalf("Failed to start background refresh: %v", err)
	}

	server, err := ui.NewServer(appContainer.Service(), appContainer.Logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
		}
	}
}
