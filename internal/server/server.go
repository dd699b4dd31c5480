// Package server exposes the recommendation engine over HTTP. A thin chi
// router fronts the engine with request validation, rate limiting, and
// structured access logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/sells-group/sitescout/internal/config"
	"github.com/sells-group/sitescout/internal/layers"
	"github.com/sells-group/sitescout/internal/recommend"
)

// Recommender runs one recommendation request. Satisfied by *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// Server holds the HTTP layer dependencies.
type Server struct {
	engine   Recommender
	set      *layers.Set
	validate *validator.Validate
	limiter  *rate.Limiter
	cfg      config.ServerConfig
}

// New creates a Server around the given engine and layer set.
func New(engine Recommender, set *layers.Set, cfg config.ServerConfig) *Server {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}
	return &Server{
		engine:   engine,
		set:      set,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		cfg:      cfg,
	}
}

// Handler builds the full middleware and route stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(recoverer)
	r.Use(accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/layers", s.handleLayers)
		r.Post("/recommend", s.handleRecommend)
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
