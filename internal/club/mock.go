package club

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use. Unset hooks return zero values.
type MockStore struct {
	mu sync.Mutex

	AddMemberFunc             func(ctx context.Context, member *Member) error
	GetMemberFunc             func(ctx context.Context, id string) (*Member, error)
	GetMembersFunc            func(ctx context.Context, ids []string) ([]Member, error)
	ListMembersFunc           func(ctx context.Context) ([]Member, error)
	ApplyMemberDeltaFunc      func(ctx context.Context, memberID string, delta Stats) error
	CreateMatchFunc           func(ctx context.Context, match *Match) error
	UpdateMatchFunc           func(ctx context.Context, match *Match) error
	GetMatchFunc              func(ctx context.Context, id string) (*Match, error)
	ListMatchesFunc           func(ctx context.Context, filter MatchFilter) ([]Match, error)
	CreateTournamentFunc      func(ctx context.Context, tournament *Tournament) error
	GetTournamentFunc         func(ctx context.Context, id string) (*Tournament, error)
	ListTournamentsFunc       func(ctx context.Context) ([]Tournament, error)
	RegisterTableFunc         func(ctx context.Context, entry TournamentTable) error
	LookupTableFunc           func(ctx context.Context, tournamentID string) (*TournamentTable, error)
	GetRowFunc                func(ctx context.Context, board, memberID string) (*LeaderboardRow, error)
	ApplyLeaderboardDeltaFunc func(ctx context.Context, board, memberID, fullName string, delta Stats) error
	ListRowsFunc              func(ctx context.Context, board string) ([]LeaderboardRow, error)
	ReplaceLedgerFunc         func(ctx context.Context, ledger Ledger) error
	SearchMembersFunc         func(ctx context.Context, query string) ([]Member, error)
	ClearFunc                 func(ctx context.Context) error

	// Call records
	CreateMatchCalls      []Match
	UpdateMatchCalls      []Match
	ApplyMemberDeltaCalls []struct {
		MemberID string
		Delta    Stats
	}
	ApplyLeaderboardDeltaCalls []struct {
		Board    string
		MemberID string
		FullName string
		Delta    Stats
	}
	RegisterTableCalls []TournamentTable
	ReplaceLedgerCalls []Ledger
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddMember(ctx context.Context, member *Member) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockStore) GetMember(ctx context.Context, id string) (*Member, error) {
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(ctx, id)
	}
	return nil, ErrMemberNotFound
}

func (m *MockStore) GetMembers(ctx context.Context, ids []string) ([]Member, error) {
	if m.GetMembersFunc != nil {
		return m.GetMembersFunc(ctx, ids)
	}
	return []Member{}, nil
}

func (m *MockStore) ListMembers(ctx context.Context) ([]Member, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx)
	}
	return []Member{}, nil
}

func (m *MockStore) ApplyMemberDelta(ctx context.Context, memberID string, delta Stats) error {
	m.mu.Lock()
	m.ApplyMemberDeltaCalls = append(m.ApplyMemberDeltaCalls, struct {
		MemberID string
		Delta    Stats
	}{memberID, delta})
	m.mu.Unlock()
	if m.ApplyMemberDeltaFunc != nil {
		return m.ApplyMemberDeltaFunc(ctx, memberID, delta)
	}
	return nil
}

func (m *MockStore) CreateMatch(ctx context.Context, match *Match) error {
	m.mu.Lock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, *match)
	m.mu.Unlock()
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) UpdateMatch(ctx context.Context, match *Match) error {
	m.mu.Lock()
	m.UpdateMatchCalls = append(m.UpdateMatchCalls, *match)
	m.mu.Unlock()
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx, filter)
	}
	return []Match{}, nil
}

func (m *MockStore) CreateTournament(ctx context.Context, tournament *Tournament) error {
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(ctx, tournament)
	}
	return nil
}

func (m *MockStore) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(ctx, id)
	}
	return nil, ErrTournamentNotFound
}

func (m *MockStore) ListTournaments(ctx context.Context) ([]Tournament, error) {
	if m.ListTournamentsFunc != nil {
		return m.ListTournamentsFunc(ctx)
	}
	return []Tournament{}, nil
}

func (m *MockStore) RegisterTable(ctx context.Context, entry TournamentTable) error {
	m.mu.Lock()
	m.RegisterTableCalls = append(m.RegisterTableCalls, entry)
	m.mu.Unlock()
	if m.RegisterTableFunc != nil {
		return m.RegisterTableFunc(ctx, entry)
	}
	return nil
}

func (m *MockStore) LookupTable(ctx context.Context, tournamentID string) (*TournamentTable, error) {
	if m.LookupTableFunc != nil {
		return m.LookupTableFunc(ctx, tournamentID)
	}
	return nil, ErrTableNotRegistered
}

func (m *MockStore) LeaderboardTable(name string) LeaderboardTable {
	return &mockTable{m: m, name: name}
}

func (m *MockStore) ReplaceLedger(ctx context.Context, ledger Ledger) error {
	m.mu.Lock()
	m.ReplaceLedgerCalls = append(m.ReplaceLedgerCalls, ledger)
	m.mu.Unlock()
	if m.ReplaceLedgerFunc != nil {
		return m.ReplaceLedgerFunc(ctx, ledger)
	}
	return nil
}

func (m *MockStore) SearchMembers(ctx context.Context, query string) ([]Member, error) {
	if m.SearchMembersFunc != nil {
		return m.SearchMembersFunc(ctx, query)
	}
	return []Member{}, nil
}

func (m *MockStore) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

type mockTable struct {
	m    *MockStore
	name string
}

func (t *mockTable) Name() string { return t.name }

func (t *mockTable) GetRow(ctx context.Context, memberID string) (*LeaderboardRow, error) {
	if t.m.GetRowFunc != nil {
		return t.m.GetRowFunc(ctx, t.name, memberID)
	}
	return nil, ErrRowNotFound
}

func (t *mockTable) ApplyDelta(ctx context.Context, memberID, fullName string, delta Stats) error {
	t.m.mu.Lock()
	t.m.ApplyLeaderboardDeltaCalls = append(t.m.ApplyLeaderboardDeltaCalls, struct {
		Board    string
		MemberID string
		FullName string
		Delta    Stats
	}{t.name, memberID, fullName, delta})
	t.m.mu.Unlock()
	if t.m.ApplyLeaderboardDeltaFunc != nil {
		return t.m.ApplyLeaderboardDeltaFunc(ctx, t.name, memberID, fullName, delta)
	}
	return nil
}

func (t *mockTable) ListRows(ctx context.Context) ([]LeaderboardRow, error) {
	if t.m.ListRowsFunc != nil {
		return t.m.ListRowsFunc(ctx, t.name)
	}
	return []LeaderboardRow{}, nil
}
