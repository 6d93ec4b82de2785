package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	s := &Service{
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_matches_recorded_total",
			Help: "The total number of matches recorded.",
		}),
		MatchesFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_matches_finalized_total",
			Help: "The total number of matches moved from Scheduled to Finished.",
		}),
		MemberWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_member_counter_write_failures_total",
			Help: "The total number of failed member counter updates.",
		}),
		LeaderboardWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_leaderboard_write_failures_total",
			Help: "The total number of failed tournament leaderboard row updates.",
		}),
		UnresolvedTables: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_leaderboard_table_unresolved_total",
			Help: "The total number of times a tournament could not be mapped to a leaderboard table.",
		}),
		HeuristicResolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_leaderboard_table_heuristic_total",
			Help: "The total number of tournaments resolved by name heuristic.",
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_ledger_rebuilds_total",
			Help: "The total number of rebuilds from the match ledger.",
		}),
		RankingQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "club_ranking_query_duration_seconds",
			Help:    "The duration of ranking queries by data source.",
			Buckets: buckets,
		}, []string{"source"}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "club_match_processing_duration_seconds",
			Help:    "The duration of individual match finalization.",
			Buckets: buckets,
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "club_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.MatchesFinalized,
		s.MemberWriteFailures,
		s.LeaderboardWriteFailures,
		s.UnresolvedTables,
		s.HeuristicResolutions,
		s.Rebuilds,
		s.RankingQueryDuration,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded()          { s.MatchesRecorded.Inc() }
func (s *Service) IncMatchesFinalized()         { s.MatchesFinalized.Inc() }
func (s *Service) IncMemberWriteFailures()      { s.MemberWriteFailures.Inc() }
func (s *Service) IncLeaderboardWriteFailures() { s.LeaderboardWriteFailures.Inc() }
func (s *Service) IncUnresolvedTables()         { s.UnresolvedTables.Inc() }
func (s *Service) IncHeuristicResolutions()     { s.HeuristicResolutions.Inc() }
func (s *Service) IncRebuilds()                 { s.Rebuilds.Inc() }

func (s *Service) ObserveRankingQuery(source string, duration float64) {
	s.RankingQueryDuration.WithLabelValues(source).Observe(duration)
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
