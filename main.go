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

	"github.com/tripwise/gateway/internal/artifact"
	"github.com/tripwise/gateway/internal/capability"
	"github.com/tripwise/gateway/internal/config"
	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/gateway"
	"github.com/tripwise/gateway/internal/reasoning"
	"github.com/tripwise/gateway/internal/router"
	"github.com/tripwise/gateway/internal/store"
	"github.com/tripwise/gateway/internal/synthesizer"
	transport "github.com/tripwise/gateway/internal/transport/http"
	"github.com/tripwise/gateway/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting travel gateway...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Reasoning URL: %s", cfg.ReasoningURL)

	// Initialize store
	var db store.Store
	if cfg.DatabaseURL != "" {
		log.Printf("Database: %s", cfg.DatabaseURL)
		sqlite, err := store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		db = sqlite
	} else {
		log.Printf("Database: in-memory")
		db = store.NewMemoryStore()
	}
	defer db.Close()

	// Initialize reasoning client
	reasoningClient := reasoning.NewClient(cfg.ReasoningURL, cfg.ReasoningAPIKey, cfg.ReasoningTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Register capability handlers
	registry := capability.NewRegistry()
	for _, intent := range []domain.Intent{
		domain.IntentWeather,
		domain.IntentTouristSpots,
		domain.IntentRestaurant,
		domain.IntentBlog,
		domain.IntentPhotoStory,
		domain.IntentGeneral,
	} {
		registry.Register(capability.NewReasoningHandler(intent, reasoningClient, cfg.ReasoningModel))
	}
	registry.Register(capability.NewTimeHandler())
	registry.Register(capability.NewWalkingRoutesHandler())
	registry.Register(capability.NewImageSearchHandler())

	// Initialize gateway
	rt := router.New(router.NewRuleClassifier(), registry, policyEngine, cfg.HandlerTimeout)
	synth := synthesizer.New(cfg.HistoryWindow)
	extractor := artifact.NewExtractor(cfg.ImageSearchTemplate, cfg.ThumbnailTemplate)
	gw := gateway.New(db, synth, rt, extractor, reasoningClient, cfg)

	// Create HTTP server
	server := transport.NewServer(gw)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Travel gateway started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down travel gateway...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Travel gateway stopped")
}
