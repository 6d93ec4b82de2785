package scoring

import "github.com/mauv0809/club-ladder/internal/club"

// Points policy. Applied per participant, identical for every match type
// and tournament category.
const (
	WinnerPoints     = 6
	LoserPoints      = 3
	WinnerWinDelta   = 1
	LoserLossDelta   = 1
	GamesPlayedDelta = 1
)

// Delta returns the counters one participant earns from a decided match.
func Delta(won bool) club.Stats {
	if won {
		return club.Stats{Wins: WinnerWinDelta, Points: WinnerPoints, GamesPlayed: GamesPlayedDelta}
	}
	return club.Stats{Losses: LoserLossDelta, Points: LoserPoints, GamesPlayed: GamesPlayedDelta}
}

// Award is one participant's share of a decided match.
type Award struct {
	MemberID string
	Delta    club.Stats
}

// Awards expands a decided match into per-participant deltas, winners first.
// A match without a winner awards nothing.
func Awards(m *club.Match, winner Side) []Award {
	if winner == SideNone {
		return nil
	}
	winners := Team(m, winner)
	losers := Team(m, winner.Opponent())

	awards := make([]Award, 0, len(winners)+len(losers))
	for _, id := range winners {
		awards = append(awards, Award{MemberID: id, Delta: Delta(true)})
	}
	for _, id := range losers {
		awards = append(awards, Award{MemberID: id, Delta: Delta(false)})
	}
	return awards
}
