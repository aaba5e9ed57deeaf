package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/oauth2"

	"github.com/susu3304/geoguess/internal/config"
	"github.com/susu3304/geoguess/internal/db"
	"github.com/susu3304/geoguess/internal/session"
)

// Archive is the read side of the result store.
type Archive interface {
	Leaderboard(ctx context.Context, difficulty string, limit int) ([]db.LeaderboardEntry, error)
	ListResults(ctx context.Context, gameID string) ([]db.RoundResult, error)
}

type API struct {
	router      *mux.Router
	games       *session.Manager
	archive     Archive
	config      *config.Config
	oauthConfig *oauth2.Config
	jwtSecret   []byte
	gatherer    prometheus.Gatherer
	discordAPI  string
	server      *http.Server
}

// New builds the HTTP API. archive may be nil, in which case the archive routes answer 503.
func New(cfg *config.Config, games *session.Manager, archive Archive, gatherer prometheus.Gatherer) *API {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	api := &API{
		router:     mux.NewRouter(),
		games:      games,
		archive:    archive,
		config:     cfg,
		jwtSecret:  []byte(cfg.JWTSecret),
		gatherer:   gatherer,
		discordAPI: "https://discord.com/api",
	}
	if cfg.OAuthEnabled() {
		api.oauthConfig = &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURI,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/api/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		}
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Ops
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// Auth endpoints
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("GET")
	a.router.HandleFunc("/api/auth/callback", a.handleCallback).Methods("GET")

	// Public endpoints
	a.router.HandleFunc("/api/games", a.handleCreateGame).Methods("POST")
	a.router.HandleFunc("/api/leaderboard", a.handleLeaderboard).Methods("GET")

	// Protected endpoints, scoped to the game in the token
	protected := func(path string, h http.HandlerFunc, method string) {
		a.router.Handle(path, a.authMiddleware(h)).Methods(method)
	}
	protected("/api/game", a.handleGetGame, "GET")
	protected("/api/game", a.handleDeleteGame, "DELETE")
	protected("/api/game/rounds", a.handleStartRound, "POST")
	protected("/api/game/guess", a.handlePlaceGuess, "POST")
	protected("/api/game/submit", a.handleSubmitGuess, "POST")
	protected("/api/game/reveal", a.handleReveal, "GET")
	protected("/api/game/reset", a.handleReset, "POST")
	protected("/api/game/difficulty", a.handleSetDifficulty, "PUT")
	protected("/api/game/results", a.handleListResults, "GET")
}

// Handler returns the router wrapped in CORS handling.
func (a *API) Handler() http.Handler {
	// Note: When AllowedOrigins is "*", AllowCredentials must be false
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}
	return cors.New(corsOptions).Handler(a.router)
}

func (a *API) Start() error {
	a.server = &http.Server{
		Addr:              a.config.WebBind,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("API server listening on http://%s", a.config.WebBind)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}
