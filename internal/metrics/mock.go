package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                       sync.Mutex
	matchesRecorded          int
	matchesFinalized         int
	memberWriteFailures      int
	leaderboardWriteFailures int
	unresolvedTables         int
	heuristicResolutions     int
	rebuilds                 int
	rankingQueries           map[string]int
	processingDurations      []float64
	slackNotifSent           int
	slackNotifFailed         int
	startupTime              float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		rankingQueries:      make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) inc(p *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*p++
}

func (m *Mock) get(p *int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *p
}

func (m *Mock) IncMatchesRecorded()          { m.inc(&m.matchesRecorded) }
func (m *Mock) IncMatchesFinalized()         { m.inc(&m.matchesFinalized) }
func (m *Mock) IncMemberWriteFailures()      { m.inc(&m.memberWriteFailures) }
func (m *Mock) IncLeaderboardWriteFailures() { m.inc(&m.leaderboardWriteFailures) }
func (m *Mock) IncUnresolvedTables()         { m.inc(&m.unresolvedTables) }
func (m *Mock) IncHeuristicResolutions()     { m.inc(&m.heuristicResolutions) }
func (m *Mock) IncRebuilds()                 { m.inc(&m.rebuilds) }
func (m *Mock) IncSlackNotifSent()           { m.inc(&m.slackNotifSent) }
func (m *Mock) IncSlackNotifFailed()         { m.inc(&m.slackNotifFailed) }

func (m *Mock) ObserveRankingQuery(source string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankingQueries[source]++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) MatchesRecorded() int          { return m.get(&m.matchesRecorded) }
func (m *Mock) MatchesFinalized() int         { return m.get(&m.matchesFinalized) }
func (m *Mock) MemberWriteFailures() int      { return m.get(&m.memberWriteFailures) }
func (m *Mock) LeaderboardWriteFailures() int { return m.get(&m.leaderboardWriteFailures) }
func (m *Mock) UnresolvedTables() int         { return m.get(&m.unresolvedTables) }
func (m *Mock) HeuristicResolutions() int     { return m.get(&m.heuristicResolutions) }
func (m *Mock) Rebuilds() int                 { return m.get(&m.rebuilds) }
func (m *Mock) SlackNotifSent() int           { return m.get(&m.slackNotifSent) }
func (m *Mock) SlackNotifFailed() int         { return m.get(&m.slackNotifFailed) }

// RankingQueries returns how many ranking queries were observed for source.
func (m *Mock) RankingQueries(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rankingQueries[source]
}
