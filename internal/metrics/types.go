package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRecorded          prometheus.Counter
	MatchesFinalized         prometheus.Counter
	MemberWriteFailures      prometheus.Counter
	LeaderboardWriteFailures prometheus.Counter
	UnresolvedTables         prometheus.Counter
	HeuristicResolutions     prometheus.Counter
	Rebuilds                 prometheus.Counter
	RankingQueryDuration     *prometheus.HistogramVec
	ProcessingDuration       prometheus.Histogram
	SlackNotifSent           prometheus.Counter
	SlackNotifFailed         prometheus.Counter
	StartupTimeSeconds       prometheus.Gauge
}
