package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/rankings"
)

type Server struct {
	Store          club.ClubStore
	Rankings       *rankings.Service
	Processor      *processor.Processor
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *chi.Mux
	pubsub         pubsub.PubSubClient
	limiter        *ipRateLimiter
}

type createMemberRequest struct {
	FullName   string      `json:"full_name"`
	Email      string      `json:"email"`
	Gender     club.Gender `json:"gender"`
	SkillLevel string      `json:"skill_level"`
}

type createTournamentRequest struct {
	Name     string                `json:"name"`
	Category club.Category         `json:"category"`
	Date     time.Time             `json:"date"`
	Status   club.TournamentStatus `json:"status"`
	// Division picks the built-in table for Singles and Doubles tournaments.
	Division club.Gender `json:"division"`
	// LeaderboardTable overrides the built-in table.
	LeaderboardTable string `json:"leaderboard_table"`
}

type tournamentResponse struct {
	club.Tournament
	LeaderboardTable string `json:"leaderboard_table,omitempty"`
}

type processResponse struct {
	Finalized int  `json:"finalized"`
	DryRun    bool `json:"dry_run"`
}

type errorResponse struct {
	Error string `json:"error"`
}
