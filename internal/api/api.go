package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/benwatts/whatson/internal/enrich"
	"github.com/benwatts/whatson/internal/logger"
	"github.com/benwatts/whatson/internal/recommend"
	"github.com/benwatts/whatson/internal/store"
)

// Server represents the API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	store      *store.Store
	enricher   *enrich.Service
	recommends *recommend.Service
	logger     *logger.Logger
}

// NewServer creates a new API server instance. templatesDir may be empty
// to run API-only (used by tests).
func NewServer(st *store.Store, enricher *enrich.Service, recommends *recommend.Service, templatesDir string) *Server {
	log := logger.App()

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(cors.Default())

	if templatesDir != "" {
		router.LoadHTMLGlob(templatesDir + "/*.html")
	}

	s := &Server{
		router:     router,
		store:      st,
		enricher:   enricher,
		recommends: recommends,
		logger:     log,
	}

	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port and blocks until it
// stops serving
func (s *Server) Run(port int) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting new requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// Browser UI
	s.router.GET("/", s.home)
	s.router.GET("/shows/:id", s.showDetail)

	// Simple form handlers for mobile; all redirect back to the list
	s.router.POST("/mark-caught-up/:id", s.formMarkCaughtUp)
	s.router.POST("/next-episode/:id", s.formNextEpisode)
	s.router.POST("/mark-hiatus/:id", s.formMarkHiatus)
	s.router.POST("/start-next-season/:id", s.formStartNextSeason)
	s.router.POST("/watched/:id", s.formMarkWatched)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/shows", s.listShows)
		v1.GET("/shows/:id", s.getShow)
		v1.POST("/shows", s.createShow)
		v1.PUT("/shows/:id", s.updateShow)
		v1.DELETE("/shows/:id", s.deleteShow)

		v1.GET("/shows/:id/history", s.showHistory)
		v1.POST("/shows/:id/watched", s.markWatched)
		v1.POST("/shows/:id/caught-up", s.markCaughtUp)
		v1.POST("/shows/:id/hiatus", s.markHiatus)
		v1.POST("/shows/:id/next-season", s.startNextSeason)
		v1.POST("/shows/:id/next-episode", s.nextEpisode)

		v1.POST("/shows/:id/refresh", s.refreshShow)
		v1.POST("/refresh-all", s.refreshAll)

		v1.GET("/recommendations/trending", s.trendingRecommendations)
		v1.GET("/recommendations/search", s.searchRecommendations)
		v1.POST("/recommendations/dismiss", s.dismissRecommendation)
		v1.POST("/recommendations/add", s.addRecommendation)
	}
}
