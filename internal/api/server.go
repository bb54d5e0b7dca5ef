// Package api exposes the calendar, idea, brief and template operations as
// a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/attachment"
	"github.com/nhle/contenthub/internal/logger"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
)

// Uploader presigns attachment uploads.
type Uploader interface {
	PresignUpload(ctx context.Context, filename, contentType string) (*attachment.Upload, error)
}

// Server is the HTTP API server.
type Server struct {
	store   store.Store
	uploads Uploader
	log     *logger.Logger
	router  *gin.Engine
	today   func() model.Date
}

// NewServer wires the routes onto a new gin engine.
func NewServer(st store.Store, uploads Uploader, log *logger.Logger, cfg model.ServerConfig) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), CORS(cfg.AllowedOrigins))

	s := &Server{
		store:   st,
		uploads: uploads,
		log:     log.With("component", "api"),
		router:  router,
		today:   model.Today,
	}

	router.GET("/healthcheck", s.handleHealthcheck)

	api := router.Group("/api")
	{
		api.GET("/calendar", s.handleCalendar)

		api.POST("/ideas", s.handleCreateIdea)
		api.GET("/ideas/:id", s.handleGetIdea)
		api.PATCH("/ideas/:id", s.handleUpdateIdea)
		api.DELETE("/ideas/:id", s.handleDeleteIdea)
		api.POST("/ideas/:id/toggle", s.handleToggleIdea)

		api.GET("/ideas/:id/brief", s.handleGetBrief)
		api.PUT("/ideas/:id/brief", s.handleUpdateBrief)
		api.GET("/ideas/:id/brief/versions", s.handleListBriefVersions)
		api.POST("/ideas/:id/brief/versions/:versionID/restore", s.handleRestoreBriefVersion)
		api.POST("/ideas/:id/brief/uploads", s.handlePresignUpload)

		api.GET("/templates", s.handleListTemplates)
		api.POST("/templates", s.handleCreateTemplate)
		api.PATCH("/templates/:id", s.handleUpdateTemplate)
		api.POST("/templates/:id/favorite", s.handleSetTemplateFavorite)
		api.POST("/templates/:id/ratings", s.handleRateTemplate)
	}

	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("API shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api: %w", err)
	}
	return nil
}

func (s *Server) handleHealthcheck(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "unavailable", err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}
