package club

import (
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// store handles all database operations for the club.
type store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

type Gender string

const (
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderUnspecified Gender = ""
)

type MatchType string

const (
	MatchTypeSingles MatchType = "Singles"
	MatchTypeDoubles MatchType = "Doubles"
)

type Category string

const (
	CategorySingles      Category = "Singles"
	CategoryDoubles      Category = "Doubles"
	CategoryMixedDoubles Category = "Mixed Doubles"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "Scheduled"
	MatchStatusFinished  MatchStatus = "Finished"
)

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "Upcoming"
	TournamentOngoing   TournamentStatus = "Ongoing"
	TournamentCompleted TournamentStatus = "Completed"
)

// RankPending is the rank_position written with every leaderboard insert.
// Readers never order by it.
const RankPending = 999

// Member is a club member with their running counters.
type Member struct {
	ID         string `json:"id" db:"id"`
	FullName   string `json:"full_name" db:"full_name"`
	Email      string `json:"email,omitempty" db:"email"`
	Gender     Gender `json:"gender" db:"gender"`
	SkillLevel string `json:"skill_level,omitempty" db:"skill_level"`
	Wins       int    `json:"wins" db:"wins"`
	Losses     int    `json:"losses" db:"losses"`
	Points     int    `json:"points" db:"points"`
}

// GamesPlayed is derived from the win and loss counters.
func (m Member) GamesPlayed() int {
	return m.Wins + m.Losses
}

// SetScore holds one set. A nil side means the set was not played or not recorded.
type SetScore struct {
	Team1 *int `json:"team1"`
	Team2 *int `json:"team2"`
}

// Complete reports whether both sides of the set are present.
func (s SetScore) Complete() bool {
	return s.Team1 != nil && s.Team2 != nil
}

// Empty reports whether neither side of the set is present.
func (s SetScore) Empty() bool {
	return s.Team1 == nil && s.Team2 == nil
}

// Match is a recorded singles or doubles contest. Side A is player1 plus
// team1's partner, side B is player2 plus team2's partner.
type Match struct {
	ID             string      `json:"id"`
	TournamentID   *string     `json:"tournament_id,omitempty"`
	MatchType      MatchType   `json:"match_type"`
	Player1ID      string      `json:"player1_id"`
	Player2ID      string      `json:"player2_id"`
	Team1PartnerID *string     `json:"team1_partner_id,omitempty"`
	Team2PartnerID *string     `json:"team2_partner_id,omitempty"`
	Set1           SetScore    `json:"set1"`
	Set2           SetScore    `json:"set2"`
	Set3           SetScore    `json:"set3"`
	WinnerID       *string     `json:"winner_id,omitempty"`
	Status         MatchStatus `json:"status"`
	Round          *string     `json:"round,omitempty"`
	MatchDate      time.Time   `json:"match_date"`
}

// Sets returns the three sets in play order.
func (m *Match) Sets() [3]SetScore {
	return [3]SetScore{m.Set1, m.Set2, m.Set3}
}

// Tournament groups matches and owns one leaderboard table.
type Tournament struct {
	ID       string           `json:"id" db:"id"`
	Name     string           `json:"name" db:"name"`
	Category Category         `json:"category" db:"category"`
	Date     time.Time        `json:"date" db:"-"`
	Status   TournamentStatus `json:"status" db:"status"`
}

// TournamentTable is a registry entry binding a tournament to its leaderboard table.
type TournamentTable struct {
	TournamentID       string   `json:"tournament_id" db:"tournament_id"`
	TableName          string   `json:"table_name" db:"table_name"`
	TournamentName     string   `json:"tournament_name" db:"tournament_name"`
	TournamentCategory Category `json:"tournament_category" db:"tournament_category"`
}

// Stats are ledger counters. The same shape is used for a single match's
// delta and for accumulated totals.
type Stats struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Points      int `json:"points"`
	GamesPlayed int `json:"games_played"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Wins:        s.Wins + o.Wins,
		Losses:      s.Losses + o.Losses,
		Points:      s.Points + o.Points,
		GamesPlayed: s.GamesPlayed + o.GamesPlayed,
	}
}

// LeaderboardRow is one member's row in a tournament leaderboard table.
type LeaderboardRow struct {
	MemberID     string `json:"member_id" db:"member_id"`
	FullName     string `json:"full_name" db:"full_name"`
	Points       int    `json:"points" db:"points"`
	Wins         int    `json:"wins" db:"wins"`
	Losses       int    `json:"losses" db:"losses"`
	GamesPlayed  int    `json:"games_played" db:"games_played"`
	RankPosition int    `json:"rank_position" db:"rank_position"`
}

// Stats returns the counters held by the row.
func (r LeaderboardRow) Stats() Stats {
	return Stats{Wins: r.Wins, Losses: r.Losses, Points: r.Points, GamesPlayed: r.GamesPlayed}
}

// MatchFilter narrows ListMatches. Zero values mean no filter.
type MatchFilter struct {
	TournamentID string
	Status       MatchStatus
}

// Ledger is a full recomputation of every running counter, written by ReplaceLedger.
type Ledger struct {
	Members map[string]Stats
	Boards  map[string][]LeaderboardRow
}
