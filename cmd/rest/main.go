package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-flashcard-be/internal/bootstrap"
	"ai-flashcard-be/internal/config"
	"ai-flashcard-be/internal/server"
	"ai-flashcard-be/internal/tracer"
	"ai-flashcard-be/pkg/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(ctx, cfg.Telemetry)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Progress Consumer...")
		if err := container.ProgressService.Consume(ctx); err != nil {
			log.Printf("Background Progress Consumer Error: %v", err)
		}
	}()
	container.DeckEventService.Start(ctx)

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
