package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"spaceship-arena/config"
	"spaceship-arena/server"
	"spaceship-arena/store"
)

func main() {
	envFile := flag.String("env", "", "Optional .env file (default: .env if present)")
	players := flag.Int("players", 0, "Players needed to start (overrides ARENA_PLAYERS)")
	httpAddr := flag.String("http", "", "Spectator HTTP address (overrides ARENA_HTTP_ADDR)")
	dbPath := flag.String("db", "", "SQLite highscore database (overrides ARENA_HIGHSCORE_DB)")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *players > 0 {
		cfg.Players = *players
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *dbPath != "" {
		cfg.HighscoreDB = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := server.Options{Config: cfg}
	if cfg.HighscoreDB != "" {
		db, err := store.OpenDB(cfg.HighscoreDB)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		events := store.NewEventLog(db, nil)
		defer events.Stop()
		opts.Scores, opts.History, opts.Events = db, db, events
		log.Printf("Highscores and match history in %s", cfg.HighscoreDB)
	} else {
		opts.Scores = store.NewFileStore(cfg.HighscoreFile)
		log.Printf("Highscores in %s", cfg.HighscoreFile)
	}

	srv := server.New(opts)
	if err := srv.Listen(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer srv.Close()

	var httpSrv *http.Server
	if cfg.HTTPAddr != "" {
		httpSrv = &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Handler()}
		go func() {
			log.Printf("Spectator HTTP on %s", cfg.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
				log.Fatalf("ListenAndServe: %v", err)
			}
		}()
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := srv.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		log.Println("Shutting down...")
	case err != nil:
		log.Printf("run: %v", err)
	default:
		log.Printf("Match %s over after %s", res.MatchID, res.Duration.Round(time.Millisecond))
		for i := 0; i < res.Players; i++ {
			log.Printf("  player %d: %d", i, res.Scores[i])
		}
		log.Println("Highscores:")
		for i, r := range res.Highscores {
			if r.Name == "" {
				continue
			}
			log.Printf("  %d. %-10s %6d  %s", i+1, r.Name, r.Score, time.Unix(r.PlayedAt, 0).Format(time.DateTime))
		}
	}

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}
}
