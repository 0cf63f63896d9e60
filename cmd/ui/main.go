package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"paxboard/internal/config"
	"paxboard/internal/container"
	"paxboard/ui"
)

func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Warm(context.Background()); err != nil {
		appContainer.Logger.Error("initial load failed: %v", err)
	}
	if err := appContainer.StartBackground(); err != nil {
		log.Fatalf("Failed to start background refresh: %v", err)
	}

	app, err := ui.NewApp(appContainer.Service(), appContainer.Logger)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	addr := ":" + appConfig.Server.Port
	log.Printf("Starting read-only dashboard on http://localhost%s", addr)
	srv := &http.Server{Addr: addr, Handler: app, ReadHeaderTimeout: 10 * time.Second}
	log.Fatal(srv.ListenAndServe())
}
