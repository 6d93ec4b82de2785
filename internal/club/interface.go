package club

import "context"

// MemberStore reads members and moves their running counters.
type MemberStore interface {
	AddMember(ctx context.Context, member *Member) error
	GetMember(ctx context.Context, id string) (*Member, error)
	GetMembers(ctx context.Context, ids []string) ([]Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
	// ApplyMemberDelta adds delta to the member's counters in a single statement.
	ApplyMemberDelta(ctx context.Context, memberID string, delta Stats) error
}

// MatchStore persists matches.
type MatchStore interface {
	CreateMatch(ctx context.Context, match *Match) error
	UpdateMatch(ctx context.Context, match *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error)
}

// TournamentStore persists tournaments.
type TournamentStore interface {
	CreateTournament(ctx context.Context, tournament *Tournament) error
	GetTournament(ctx context.Context, id string) (*Tournament, error)
	ListTournaments(ctx context.Context) ([]Tournament, error)
}

// TableRegistry maps tournaments to the name of their leaderboard table.
type TableRegistry interface {
	RegisterTable(ctx context.Context, entry TournamentTable) error
	LookupTable(ctx context.Context, tournamentID string) (*TournamentTable, error)
}

// LeaderboardTable is a handle on one named leaderboard table.
type LeaderboardTable interface {
	Name() string
	GetRow(ctx context.Context, memberID string) (*LeaderboardRow, error)
	// ApplyDelta adds delta to the member's row, inserting it with
	// RankPending if it does not exist yet.
	ApplyDelta(ctx context.Context, memberID, fullName string, delta Stats) error
	ListRows(ctx context.Context) ([]LeaderboardRow, error)
}

// LeaderboardTables hands out leaderboard table handles by name.
type LeaderboardTables interface {
	LeaderboardTable(name string) LeaderboardTable
}

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	MemberStore
	MatchStore
	TournamentStore
	TableRegistry
	LeaderboardTables
	// ReplaceLedger overwrites every member counter and rewrites the given
	// leaderboard tables in one transaction.
	ReplaceLedger(ctx context.Context, ledger Ledger) error
	// SearchMembers returns members whose name fuzzily matches query.
	SearchMembers(ctx context.Context, query string) ([]Member, error)
	Clear(ctx context.Context) error
}
