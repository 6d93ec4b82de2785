package notifier

import (
	"sync"

	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/rankings"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendResultNotificationFunc       func(result MatchResult, dryRun bool) error
	FormatLeaderboardResponseFunc    func(title string, standings []rankings.Standing) (any, error)
	FormatMemberStatsResponseFunc    func(member *club.Member, query string) (any, error)
	FormatMemberNotFoundResponseFunc func(query string) (any, error)

	// Call records
	SendResultNotificationCalls []struct {
		Result MatchResult
		DryRun bool
	}
	SendLeaderboardCalls []struct {
		Title     string
		Standings []rankings.Standing
	}
	FormatLeaderboardResponseCalls []struct {
		Title     string
		Standings []rankings.Standing
	}
	FormatMemberStatsResponseCalls []*club.Member
	FormatMemberNotFoundCalls      []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.FormatLeaderboardResponseCalls = nil
	m.FormatMemberStatsResponseCalls = nil
	m.FormatMemberNotFoundCalls = nil
}

func (m *Mock) SendResultNotification(result MatchResult, dryRun bool) error {
	m.mu.Lock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct {
		Result MatchResult
		DryRun bool
	}{result, dryRun})
	m.mu.Unlock()
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(title string, standings []rankings.Standing, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		Title     string
		Standings []rankings.Standing
	}{title, standings})
	return nil
}

func (m *Mock) FormatLeaderboardResponse(title string, standings []rankings.Standing) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatLeaderboardResponseCalls = append(m.FormatLeaderboardResponseCalls, struct {
		Title     string
		Standings []rankings.Standing
	}{title, standings})
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(title, standings)
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatMemberStatsResponse(member *club.Member, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatMemberStatsResponseCalls = append(m.FormatMemberStatsResponseCalls, member)
	if m.FormatMemberStatsResponseFunc != nil {
		return m.FormatMemberStatsResponseFunc(member, query)
	}
	return "formatted_member_stats", nil
}

func (m *Mock) FormatMemberNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatMemberNotFoundCalls = append(m.FormatMemberNotFoundCalls, query)
	if m.FormatMemberNotFoundResponseFunc != nil {
		return m.FormatMemberNotFoundResponseFunc(query)
	}
	return "formatted_member_not_found", nil
}
