package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/rankings"
	"golang.org/x/time/rate"
)

func NewServer(store club.ClubStore, rankingsSvc *rankings.Service, proc *processor.Processor, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Rankings:       rankingsSvc,
		Processor:      proc,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         chi.NewRouter(),
		pubsub:         pubsub,
		limiter:        newIPRateLimiter(rate.Limit(cfg.HTTP.WriteRateLimit), cfg.HTTP.WriteBurst),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(paramsMiddleware)

	r.Handle("/metrics", s.MetricsHandler)
	r.Get("/health", s.HealthCheckHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/rankings", s.RankingsHandler())

		r.Route("/members", func(r chi.Router) {
			r.Get("/", s.ListMembersHandler())
			r.Get("/search", s.SearchMembersHandler())
			r.Get("/{id}", s.GetMemberHandler())
			r.With(rateLimitMiddleware(s.limiter)).Post("/", s.CreateMemberHandler())
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", s.ListTournamentsHandler())
			r.Get("/{id}", s.GetTournamentHandler())
			r.Get("/{id}/leaderboard", s.TournamentLeaderboardHandler())
			r.Get("/{id}/verify", s.VerifyLeaderboardHandler())
			r.Group(func(r chi.Router) {
				r.Use(rateLimitMiddleware(s.limiter))
				r.Post("/", s.CreateTournamentHandler())
				r.Post("/{id}/matches", s.CreateTournamentMatchHandler())
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", s.ListMatchesHandler())
			r.Get("/{id}", s.GetMatchHandler())
			r.Group(func(r chi.Router) {
				r.Use(rateLimitMiddleware(s.limiter))
				r.Post("/", s.CreateMatchHandler())
				r.Put("/{id}", s.UpdateMatchScoresHandler())
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(rateLimitMiddleware(s.limiter))
			r.Post("/rebuild", s.RebuildHandler())
			r.Post("/process", s.ProcessMatchesHandler())
		})
	})

	r.Post("/pubsub/match-finalized", s.MatchFinalizedHandler())

	// Slash commands are signed by Slack.
	slackVerify := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)
	r.Method(http.MethodPost, "/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), slackVerify))
	r.Method(http.MethodPost, "/slack/command/member-stats", Chain(s.MemberStatsCommandHandler(), slackVerify))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
