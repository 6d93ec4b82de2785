package club_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sqlx.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return club.New(db), db, teardown
}

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

func addMembers(t *testing.T, store club.ClubStore, members ...club.Member) {
	t.Helper()
	for i := range members {
		require.NoError(t, store.AddMember(context.Background(), &members[i]))
	}
}

func TestAddAndGetMembers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	addMembers(t, store,
		club.Member{ID: "m1", FullName: "Anna Berg", Gender: club.GenderFemale},
		club.Member{ID: "m2", FullName: "Carl Dahl", Gender: club.GenderMale},
	)

	m, err := store.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Anna Berg", m.FullName)
	assert.Equal(t, club.GenderFemale, m.Gender)
	assert.Equal(t, 0, m.GamesPlayed())

	_, err = store.GetMember(ctx, "missing")
	assert.ErrorIs(t, err, club.ErrMemberNotFound)

	all, err := store.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := store.GetMembers(ctx, []string{"m2", "nope"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "m2", some[0].ID)
}

func TestApplyMemberDelta(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	addMembers(t, store, club.Member{ID: "m1", FullName: "Anna Berg"})

	win := club.Stats{Wins: 1, Points: 6, GamesPlayed: 1}
	require.NoError(t, store.ApplyMemberDelta(ctx, "m1", win))
	require.NoError(t, store.ApplyMemberDelta(ctx, "m1", club.Stats{Losses: 1, Points: 3, GamesPlayed: 1}))

	m, err := store.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Wins)
	assert.Equal(t, 1, m.Losses)
	assert.Equal(t, 9, m.Points)
	assert.Equal(t, 2, m.GamesPlayed())

	err = store.ApplyMemberDelta(ctx, "ghost", win)
	assert.ErrorIs(t, err, club.ErrMemberNotFound)
}

func TestCreateUpdateAndListMatches(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.CreateTournament(ctx, &club.Tournament{ID: "t1", Name: "Spring Open", Category: club.CategorySingles}))

	date := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	match := &club.Match{
		ID:             "x1",
		TournamentID:   strp("t1"),
		MatchType:      club.MatchTypeDoubles,
		Player1ID:      "a",
		Player2ID:      "b",
		Team1PartnerID: strp("c"),
		Set1:           club.SetScore{Team1: intp(6), Team2: intp(3)},
		Status:         club.MatchStatusScheduled,
		MatchDate:      date,
	}
	require.NoError(t, store.CreateMatch(ctx, match))

	got, err := store.GetMatch(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "t1", *got.TournamentID)
	assert.Equal(t, "c", *got.Team1PartnerID)
	assert.Nil(t, got.Team2PartnerID)
	assert.Equal(t, 6, *got.Set1.Team1)
	assert.Nil(t, got.Set2.Team1)
	assert.True(t, date.Equal(got.MatchDate))

	got.Set2 = club.SetScore{Team1: intp(6), Team2: intp(4)}
	got.WinnerID = strp("a")
	got.Status = club.MatchStatusFinished
	require.NoError(t, store.UpdateMatch(ctx, got))

	finished, err := store.ListMatches(ctx, club.MatchFilter{TournamentID: "t1", Status: club.MatchStatusFinished})
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, "a", *finished[0].WinnerID)

	scheduled, err := store.ListMatches(ctx, club.MatchFilter{Status: club.MatchStatusScheduled})
	require.NoError(t, err)
	assert.Empty(t, scheduled)

	_, err = store.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, club.ErrMatchNotFound)
	assert.ErrorIs(t, store.UpdateMatch(ctx, &club.Match{ID: "missing"}), club.ErrMatchNotFound)
}

func TestTableRegistry(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := store.LookupTable(ctx, "t1")
	assert.ErrorIs(t, err, club.ErrTableNotRegistered)

	entry := club.TournamentTable{TournamentID: "t1", TableName: "tspc_mens_singles_results", TournamentName: "Men's Singles", TournamentCategory: club.CategorySingles}
	require.NoError(t, store.RegisterTable(ctx, entry))

	got, err := store.LookupTable(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, entry, *got)

	entry.TableName = "tspc_mixed_doubles_results"
	require.NoError(t, store.RegisterTable(ctx, entry))
	got, err = store.LookupTable(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "tspc_mixed_doubles_results", got.TableName)
}

func TestLeaderboardTable_ApplyDeltaInsertsWithSentinelThenIncrements(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	board := store.LeaderboardTable("tspc_mens_singles_results")
	other := store.LeaderboardTable("tspc_womens_singles_results")
	assert.Equal(t, "tspc_mens_singles_results", board.Name())

	_, err := board.GetRow(ctx, "m1")
	assert.ErrorIs(t, err, club.ErrRowNotFound)

	require.NoError(t, board.ApplyDelta(ctx, "m1", "Anna", club.Stats{Wins: 1, Points: 6, GamesPlayed: 1}))
	require.NoError(t, board.ApplyDelta(ctx, "m1", "Anna", club.Stats{Losses: 1, Points: 3, GamesPlayed: 1}))

	row, err := board.GetRow(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, club.LeaderboardRow{MemberID: "m1", FullName: "Anna", Points: 9, Wins: 1, Losses: 1, GamesPlayed: 2, RankPosition: club.RankPending}, *row)

	rows, err := other.ListRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows, "tables must not share rows")
}

func TestReplaceLedger(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	addMembers(t, store,
		club.Member{ID: "m1", FullName: "Anna"},
		club.Member{ID: "m2", FullName: "Bea"},
	)
	require.NoError(t, store.ApplyMemberDelta(ctx, "m2", club.Stats{Wins: 5, Points: 30}))
	require.NoError(t, store.LeaderboardTable("stale").ApplyDelta(ctx, "m2", "Bea", club.Stats{Points: 100}))

	ledger := club.Ledger{
		Members: map[string]club.Stats{"m1": {Wins: 1, Points: 6, GamesPlayed: 1}},
		Boards: map[string][]club.LeaderboardRow{
			"tspc_womens_singles_results": {{MemberID: "m1", FullName: "Anna", Points: 6, Wins: 1, GamesPlayed: 1, RankPosition: 1}},
		},
	}
	require.NoError(t, store.ReplaceLedger(ctx, ledger))

	m1, err := store.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 6, m1.Points)
	m2, err := store.GetMember(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, 0, m2.Points, "members absent from the ledger are zeroed")

	stale, err := store.LeaderboardTable("stale").ListRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, stale)

	row, err := store.LeaderboardTable("tspc_womens_singles_results").GetRow(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, row.RankPosition)
}

func TestSearchMembers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	addMembers(t, store,
		club.Member{ID: "m1", FullName: "Johan Svensson"},
		club.Member{ID: "m2", FullName: "Joanna Lind"},
		club.Member{ID: "m3", FullName: "Per Olsson"},
	)

	found, err := store.SearchMembers(ctx, "jo")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = store.SearchMembers(ctx, "OLSSON")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "m3", found[0].ID)
}

func TestClear(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	addMembers(t, store, club.Member{ID: "m1", FullName: "Anna"})
	require.NoError(t, store.Clear(ctx))

	all, err := store.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
