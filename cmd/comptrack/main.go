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

	"github.com/savegress/comptrack/internal/api"
	"github.com/savegress/comptrack/internal/cache"
	"github.com/savegress/comptrack/internal/config"
	"github.com/savegress/comptrack/internal/storage"
)

func main() {
	log.Println("Starting CompTrack...")

	configPath := os.Getenv("COMPTRACK_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DataPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	c, err := cache.New(&cache.Config{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		Enabled:  cfg.Cache.Enabled,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer c.Close()
	if cfg.Cache.Enabled {
		log.Printf("Summary cache enabled at %s", cfg.Cache.Addr)
	}

	server := api.NewServer(cfg, store, c)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("CompTrack API listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("CompTrack stopped")
}
