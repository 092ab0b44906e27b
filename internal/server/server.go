package server

import (
	"context"
	"net/http"
	"time"

	"github.com/brk3/habiterm/internal/config"
	"github.com/brk3/habiterm/internal/logger"
	"github.com/brk3/habiterm/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg *config.Config
	svc *service.Service
}

func New(cfg *config.Config, svc *service.Service) *Server {
	return &Server{cfg: cfg, svc: svc}
}

func (s *Server) Router() http.Handler {
	s.seedGauges(context.Background())

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.AuthToken != "" {
			r.Use(tokenMiddleware(s.cfg.AuthToken))
		}

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.listHabits)
			r.Post("/", s.createHabit)
			r.Get("/{habit_id}", s.getHabit)
			r.Patch("/{habit_id}", s.updateHabit)
			r.Delete("/{habit_id}", s.deleteHabit)
			r.Post("/{habit_id}/completions", s.completeHabit)
		})
		r.Get("/today", s.getToday)
		r.Get("/week", s.getWeek)
	})
	return r
}

// seedGauges loads the habit count so later increments start from the
// stored total.
func (s *Server) seedGauges(ctx context.Context) {
	habits, err := s.svc.ListHabits(ctx)
	if err != nil {
		logger.Warn("Failed to seed habit gauge", "error", err)
		return
	}
	activeHabits.Set(float64(len(habits)))
}

// ListenAndServe serves the API on cfg.ListenAddr until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Starting server", "addr", s.cfg.ListenAddr, "auth", s.cfg.AuthToken != "")
	return srv.ListenAndServe()
}
