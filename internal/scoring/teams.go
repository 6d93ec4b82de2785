package scoring

import "github.com/mauv0809/club-ladder/internal/club"

// Team returns the participant ids of one side: the primary player, then the
// partner for doubles when one is recorded.
func Team(m *club.Match, side Side) []string {
	var primary string
	var partner *string
	switch side {
	case SideA:
		primary, partner = m.Player1ID, m.Team1PartnerID
	case SideB:
		primary, partner = m.Player2ID, m.Team2PartnerID
	default:
		return nil
	}

	team := make([]string, 0, 2)
	if primary != "" {
		team = append(team, primary)
	}
	if m.MatchType == club.MatchTypeDoubles && partner != nil && *partner != "" {
		team = append(team, *partner)
	}
	return team
}

// Participants returns every participant of the match, side A first.
func Participants(m *club.Match) []string {
	return append(Team(m, SideA), Team(m, SideB)...)
}

// Disjoint reports whether no member appears on both sides or twice on one side.
func Disjoint(m *club.Match) bool {
	seen := make(map[string]struct{}, 4)
	for _, id := range Participants(m) {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
