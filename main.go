package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/api"
	"github.com/bryan-buckman/newsdesk/internal/config"
	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/ledger"
	"github.com/bryan-buckman/newsdesk/internal/ui"
	"github.com/bryan-buckman/newsdesk/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer store.Close()
	log.Printf("Local state in %s", store.DatabaseType())

	client, err := api.NewClient(cfg.APIURL, cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("API client error: %v", err)
	}

	app := ui.New(client, ledger.New(store))
	srv, err := web.New(app, client)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}

	poller := ui.NewChatPoller(app, cfg.ChatInterval, cfg.HTTPTimeout)
	poller.Start()

	initCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	app.Init(initCtx, cfg.DefaultView)
	cancel()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(cfg.Addr) }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Printf("Received %s, shutting down", s)
	case err := <-errc:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	poller.Stop()
	app.Wait()
}

func openStore(cfg config.Config) (database.Store, error) {
	if cfg.DatabaseURL != "" {
		return database.NewPostgres(cfg.DatabaseURL)
	}
	return database.New(cfg.DBPath)
}
