package server

import (
	"net/http"

	"horse-race/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

type Server struct {
	store *Store
	db    *gorm.DB
	ws    *wsHub
	cfg   config.Config
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store: NewStore(),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
	}
}

func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.Post("/", s.handleCreateGame)
		r.Get("/{id}", s.handleGetGame)
		r.Get("/{id}/players", s.handleListPlayers)
		r.Put("/{id}/join", s.handleJoinGame)
		r.Put("/{id}/rollDice", s.handleRollDice)
		r.Put("/{id}/start", s.handleStartGame)
		// The {player} segment addresses the seat index for readiness
		// updates and the player id everywhere else. chi requires one
		// param name per position, so both share it.
		r.Put("/{id}/players/{player}/ready", s.handleSetReady)
		r.Put("/{id}/players/{player}/position", s.handleUpdatePosition)
		r.Delete("/{id}/players/{player}", s.handleRemovePlayer)
	})
	router.Get("/ws/games/{id}", s.handleWatchGame)

	return router
}
