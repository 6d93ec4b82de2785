package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded()
	IncMatchesFinalized()
	IncMemberWriteFailures()
	IncLeaderboardWriteFailures()
	IncUnresolvedTables()
	IncHeuristicResolutions()
	IncRebuilds()
	ObserveRankingQuery(source string, duration float64)
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
