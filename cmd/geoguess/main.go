package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/susu3304/geoguess/internal/api"
	"github.com/susu3304/geoguess/internal/bot"
	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/commands"
	"github.com/susu3304/geoguess/internal/config"
	"github.com/susu3304/geoguess/internal/db"
	"github.com/susu3304/geoguess/internal/metrics"
	"github.com/susu3304/geoguess/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load locations
	locations := catalog.Default(nil)
	if cfg.LocationsFile != "" {
		locations, err = catalog.Load(cfg.LocationsFile, nil)
		if err != nil {
			log.Fatalf("Failed to load locations: %v", err)
		}
	}
	log.Printf("Loaded %d locations", locations.Len())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	// Connect to database when an archive is configured
	var (
		database *db.DB
		recorder session.Recorder
		archive  api.Archive
		board    commands.Leaderboard
	)
	if cfg.DatabaseURL != "" {
		database, err = db.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(context.Background()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		recorder, archive, board = database, database, database
	} else {
		log.Println("DATABASE_URL not set, round results will not be archived")
	}

	games := session.NewManager(session.Options{
		Picker:     locations,
		Difficulty: cfg.DefaultDifficulty,
		Recorder:   recorder,
		Metrics:    m,
		IdleTTL:    cfg.GameIdleTTL,
	})

	var janitor *session.Janitor
	if cfg.GameIdleTTL > 0 {
		janitor = session.NewJanitor(games, cfg.GameIdleTTL/4)
	}
	janitor.Start()
	defer janitor.Stop()

	// Initialize API server
	apiServer := api.New(cfg, games, archive, registry)

	// Start Discord bot
	if cfg.DiscordToken != "" {
		discordBot, err := bot.New(cfg.DiscordToken, commands.NewGeo(games, board))
		if err != nil {
			log.Fatalf("Failed to create discord bot: %v", err)
		}
		if err := discordBot.Start(); err != nil {
			log.Fatalf("Failed to start discord bot: %v", err)
		}
		defer discordBot.Stop()
	} else {
		log.Println("DISCORD_TOKEN not set, Discord bot disabled")
	}

	// Start API server
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
}
