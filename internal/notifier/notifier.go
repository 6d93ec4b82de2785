package notifier

import (
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/rankings"
)

// MatchResult is what a result announcement shows about a finished match.
type MatchResult struct {
	MatchID        string
	TournamentName string
	MatchType      club.MatchType
	Winners        []string
	Losers         []string
	// Sets holds each played set as [side A, side B].
	Sets         [][2]int
	WinnerPoints int
	LoserPoints  int
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For finished matches
	SendResultNotification(result MatchResult, dryRun bool) error
	// For posting a leaderboard to the channel
	SendLeaderboard(title string, standings []rankings.Standing, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(title string, standings []rankings.Standing) (any, error)
	FormatMemberStatsResponse(member *club.Member, query string) (any, error)
	FormatMemberNotFoundResponse(query string) (any, error)
}
