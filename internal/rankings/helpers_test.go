package rankings_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/database"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/rankings"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    club.ClubStore
	metrics  *metrics.Mock
	resolver *rankings.Resolver
	writer   *rankings.LedgerWriter
	service  *rankings.Service
}

// setupTestDB wires the ranking components over an in-memory database.
func setupTestDB(t *testing.T, static map[string]string, heuristic bool) (*fixture, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := club.New(db)
	m := metrics.NewMock()
	resolver := rankings.NewResolver(store, static, heuristic, m)
	return &fixture{
		store:    store,
		metrics:  m,
		resolver: resolver,
		writer:   rankings.NewLedgerWriter(store, resolver, m),
		service:  rankings.NewService(store, resolver, m),
	}, teardown
}

func strp(s string) *string { return &s }

func set(a, b int) club.SetScore { return club.SetScore{Team1: &a, Team2: &b} }

func (f *fixture) addMember(t *testing.T, id, name string, gender club.Gender) {
	t.Helper()
	require.NoError(t, f.store.AddMember(context.Background(), &club.Member{ID: id, FullName: name, Gender: gender}))
}

func (f *fixture) addTournament(t *testing.T, id, name string, category club.Category) {
	t.Helper()
	require.NoError(t, f.store.CreateTournament(context.Background(), &club.Tournament{ID: id, Name: name, Category: category}))
}

// finished builds a finished singles match won by winner.
func finished(id, tournamentID, winner, loser string) club.Match {
	m := club.Match{
		ID:        id,
		MatchType: club.MatchTypeSingles,
		Player1ID: winner,
		Player2ID: loser,
		Set1:      set(6, 3),
		Set2:      set(6, 4),
		WinnerID:  strp(winner),
		Status:    club.MatchStatusFinished,
		MatchDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	if tournamentID != "" {
		m.TournamentID = strp(tournamentID)
	}
	return m
}

// randomLedger generates finished singles and doubles matches between the given members.
func randomLedger(f *gofakeit.Faker, memberIDs []string, n int, tournamentID string) []club.Match {
	matches := make([]club.Match, 0, n)
	for i := 0; i < n; i++ {
		perm := make([]string, len(memberIDs))
		copy(perm, memberIDs)
		f.ShuffleAnySlice(perm)

		m := finished(fmt.Sprintf("match-%d", i), tournamentID, perm[0], perm[1])
		if f.Bool() {
			m.MatchType = club.MatchTypeDoubles
			m.Team1PartnerID = strp(perm[2])
			m.Team2PartnerID = strp(perm[3])
		}
		if f.Bool() {
			m.Set1, m.Set2 = set(3, 6), set(2, 6)
			m.WinnerID = strp(m.Player2ID)
		}
		if f.IntRange(0, 9) == 0 {
			m.Set1, m.Set2 = set(6, 6), set(6, 6)
			m.WinnerID = nil
		}
		matches = append(matches, m)
	}
	return matches
}
