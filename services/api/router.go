package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sitewrap/services/generator"
)

const buildsFinishedTopic = "sitewrap.builds.finished"

// API wires the generation pipeline, external dependencies, and
// configuration for the HTTP handlers.
type API struct {
	store    *Store
	pipeline *generator.Pipeline
	config   Config
	logger   *log.Logger
}

// New initialises the API layer. The pipeline is injected so tests can run
// the handlers against a fake storage collaborator.
func New(store *Store, pipeline *generator.Pipeline, cfg Config, logger *log.Logger) (*API, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &API{
		store:    store,
		pipeline: pipeline,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes() (http.Handler, error) {
	if a == nil {
		return nil, errors.New("nil api")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.config.RequestTimeout))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/builds", a.handleCreateBuild)
		r.Get("/builds", a.handleListBuilds)
	})

	return r, nil
}

func (a *API) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
