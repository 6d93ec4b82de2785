package rankings

import (
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/scoring"
)

// Accumulate folds finished matches into per-member totals. Matches that are
// not finished or have no winner contribute nothing. The result does not
// depend on the order of matches.
func Accumulate(matches []club.Match) map[string]club.Stats {
	totals := make(map[string]club.Stats)
	for i := range matches {
		m := &matches[i]
		if m.Status != club.MatchStatusFinished {
			continue
		}
		for _, a := range scoring.Awards(m, scoring.WinningSide(m)) {
			totals[a.MemberID] = totals[a.MemberID].Add(a.Delta)
		}
	}
	return totals
}
