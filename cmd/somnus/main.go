package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/somnuslabs/somnus/internal/auralink"
	"github.com/somnuslabs/somnus/internal/coach"
	"github.com/somnuslabs/somnus/internal/config"
	"github.com/somnuslabs/somnus/internal/conversation"
	"github.com/somnuslabs/somnus/internal/genai"
	"github.com/somnuslabs/somnus/internal/httpapi"
	"github.com/somnuslabs/somnus/internal/observability"
	"github.com/somnuslabs/somnus/internal/points"
	"github.com/somnuslabs/somnus/internal/sleep"
	"github.com/somnuslabs/somnus/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	summaryStore, err := sleep.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("sleep store init failed: %v", err)
	}
	defer summaryStore.Close()

	pointsStore, err := points.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("points store init failed: %v", err)
	}
	defer pointsStore.Close()

	userStore, err := users.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("user store init failed: %v", err)
	}
	defer userStore.Close()

	if cfg.DemoSeedEnabled {
		n, err := sleep.SeedDemoData(ctx, summaryStore)
		if err != nil {
			log.Printf("demo seed failed after %d records: %v", n, err)
		} else {
			log.Printf("seeded %d demo sleep summaries", n)
		}
	}

	generator := genai.NewClient(genai.Config{
		APIKey:      cfg.GenAPIKey,
		Endpoint:    cfg.GenEndpoint,
		Model:       cfg.GenModel,
		Temperature: cfg.GenTemperature,
		TopP:        cfg.GenTopP,
		MaxTokens:   cfg.GenMaxTokens,
		Timeout:     cfg.GenRequestTimeout,
	})

	conversations := conversation.NewStore(cfg.ChatHistoryIdleTTL)
	reports := coach.NewReportService(summaryStore, generator, metrics)
	chat := coach.NewChatService(conversations, generator, metrics)
	pointsSvc := points.NewService(pointsStore, summaryStore)
	bridge := auralink.NewService(cfg.AuralinkContract)

	api := httpapi.New(cfg, reports, chat, summaryStore, pointsSvc, userStore, bridge, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	conversations.StartJanitor(runCtx, time.Minute)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
