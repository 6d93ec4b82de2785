package rankings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mauv0809/club-ladder/internal/club"
)

// Entry is one member's totals before ranking.
type Entry struct {
	MemberID string
	FullName string
	Gender   club.Gender
	Stats    club.Stats
}

// Standing is one ranked leaderboard line.
type Standing struct {
	RankPosition int         `json:"rank_position"`
	MemberID     string      `json:"member_id"`
	FullName     string      `json:"full_name"`
	Gender       club.Gender `json:"gender"`
	Wins         int         `json:"wins"`
	Losses       int         `json:"losses"`
	Points       int         `json:"points"`
	GamesPlayed  int         `json:"games_played"`
}

// ParseGender turns a query value into a filter. Empty and "All" mean no filter.
func ParseGender(s string) (club.Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return club.GenderUnspecified, nil
	case "male":
		return club.GenderMale, nil
	case "female":
		return club.GenderFemale, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidGender)
	}
}

// Rank filters entries by gender, orders them by points descending with
// member id as tie-break, and numbers them 1..N. An unspecified gender
// filter keeps everyone; a specific one drops members of unspecified gender.
// Stored rank positions are never consulted.
func Rank(entries []Entry, gender club.Gender) []Standing {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if gender != club.GenderUnspecified && e.Gender != gender {
			continue
		}
		kept = append(kept, e)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Stats.Points != kept[j].Stats.Points {
			return kept[i].Stats.Points > kept[j].Stats.Points
		}
		return kept[i].MemberID < kept[j].MemberID
	})

	out := make([]Standing, len(kept))
	for i, e := range kept {
		out[i] = Standing{
			RankPosition: i + 1,
			MemberID:     e.MemberID,
			FullName:     e.FullName,
			Gender:       e.Gender,
			Wins:         e.Stats.Wins,
			Losses:       e.Stats.Losses,
			Points:       e.Stats.Points,
			GamesPlayed:  e.Stats.GamesPlayed,
		}
	}
	return out
}

// indexMembers keys members by id.
func indexMembers(members []club.Member) map[string]club.Member {
	idx := make(map[string]club.Member, len(members))
	for _, m := range members {
		idx[m.ID] = m
	}
	return idx
}

// entriesFromTotals joins accumulated totals with member names and genders.
// Unknown members keep their id as name and an unspecified gender.
func entriesFromTotals(totals map[string]club.Stats, members map[string]club.Member) []Entry {
	entries := make([]Entry, 0, len(totals))
	for id, st := range totals {
		e := Entry{MemberID: id, FullName: id, Stats: st}
		if m, ok := members[id]; ok {
			e.FullName = m.FullName
			e.Gender = m.Gender
		}
		entries = append(entries, e)
	}
	return entries
}

// entriesFromRows joins leaderboard rows with member genders. The row's
// denormalized name is kept for display.
func entriesFromRows(rows []club.LeaderboardRow, members map[string]club.Member) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := Entry{MemberID: r.MemberID, FullName: r.FullName, Stats: r.Stats()}
		if m, ok := members[r.MemberID]; ok {
			e.Gender = m.Gender
			if e.FullName == "" {
				e.FullName = m.FullName
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// entriesFromMembers uses each member's running counters.
func entriesFromMembers(members []club.Member) []Entry {
	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		entries = append(entries, Entry{
			MemberID: m.ID,
			FullName: m.FullName,
			Gender:   m.Gender,
			Stats: club.Stats{
				Wins:        m.Wins,
				Losses:      m.Losses,
				Points:      m.Points,
				GamesPlayed: m.GamesPlayed(),
			},
		})
	}
	return entries
}
