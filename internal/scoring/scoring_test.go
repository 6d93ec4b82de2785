package scoring_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(a, b int) club.SetScore {
	return club.SetScore{Team1: &a, Team2: &b}
}

func strp(s string) *string { return &s }

func singles(sets ...club.SetScore) *club.Match {
	m := &club.Match{ID: "m", MatchType: club.MatchTypeSingles, Player1ID: "p1", Player2ID: "p2"}
	applySets(m, sets)
	return m
}

func doubles(sets ...club.SetScore) *club.Match {
	m := &club.Match{
		ID: "m", MatchType: club.MatchTypeDoubles,
		Player1ID: "p1", Team1PartnerID: strp("p3"),
		Player2ID: "p2", Team2PartnerID: strp("p4"),
	}
	applySets(m, sets)
	return m
}

func applySets(m *club.Match, sets []club.SetScore) {
	for i, s := range sets {
		switch i {
		case 0:
			m.Set1 = s
		case 1:
			m.Set2 = s
		case 2:
			m.Set3 = s
		}
	}
}

func TestAdjudicate_ScenarioA_StraightSets(t *testing.T) {
	m := singles(set(11, 5), set(11, 7))
	o := scoring.Decide(m)

	assert.Equal(t, scoring.SideA, o.Winner)
	assert.Equal(t, 2, o.SetsA)
	assert.Equal(t, 0, o.SetsB)
	assert.Equal(t, "p1", *scoring.WinnerID(m, o.Winner))

	awards := scoring.Awards(m, o.Winner)
	assert.Equal(t, []scoring.Award{
		{MemberID: "p1", Delta: club.Stats{Wins: 1, Points: 6, GamesPlayed: 1}},
		{MemberID: "p2", Delta: club.Stats{Losses: 1, Points: 3, GamesPlayed: 1}},
	}, awards)
}

func TestAdjudicate_ScenarioB_ThreeSets(t *testing.T) {
	m := singles(set(11, 9), set(8, 11), set(11, 9))
	o := scoring.Decide(m)

	assert.Equal(t, scoring.SideA, o.Winner)
	assert.Equal(t, 2, o.SetsA)
	assert.Equal(t, 1, o.SetsB)
	assert.Equal(t, 3, o.Played)
}

func TestAdjudicate_ScenarioC_DoublesSideB(t *testing.T) {
	m := doubles(set(11, 13), set(11, 13))
	o := scoring.Decide(m)
	require.Equal(t, scoring.SideB, o.Winner)

	got := map[string]club.Stats{}
	for _, a := range scoring.Awards(m, o.Winner) {
		got[a.MemberID] = a.Delta
	}
	win := club.Stats{Wins: 1, Points: 6, GamesPlayed: 1}
	loss := club.Stats{Losses: 1, Points: 3, GamesPlayed: 1}
	assert.Equal(t, map[string]club.Stats{"p2": win, "p4": win, "p1": loss, "p3": loss}, got)
}

func TestAdjudicate_ScenarioD_TiedSetsLeaveNoWinner(t *testing.T) {
	m := singles(set(11, 11), set(11, 11))
	o := scoring.Decide(m)

	assert.False(t, o.Decided())
	assert.Equal(t, 0, o.SetsA)
	assert.Equal(t, 0, o.SetsB)
	assert.Nil(t, scoring.WinnerID(m, o.Winner))
	assert.Empty(t, scoring.Awards(m, o.Winner))
}

func TestAdjudicate_OneSetOneAll(t *testing.T) {
	o := scoring.Adjudicate([3]club.SetScore{set(6, 2), set(3, 6)})
	assert.False(t, o.Decided(), "1-1 without a third set is undecided")
}

func TestAdjudicate_FewerThanTwoSetsIsUndecided(t *testing.T) {
	o := scoring.Adjudicate([3]club.SetScore{set(6, 0)})
	assert.Equal(t, 1, o.SetsA)
	assert.False(t, o.Decided())

	o = scoring.Adjudicate([3]club.SetScore{set(6, 0), {Team1: nil, Team2: nil}, set(6, 1)})
	assert.Equal(t, scoring.SideA, o.Winner, "set3 counts when set2 is absent")
}

// The declared winner always has strictly more sets; level counts yield none.
func TestAdjudicate_WinnerHasMoreSets(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 500; i++ {
		var sets [3]club.SetScore
		n := f.IntRange(0, 3)
		for j := 0; j < n; j++ {
			sets[j] = set(f.IntRange(0, 15), f.IntRange(0, 15))
		}
		o := scoring.Adjudicate(sets)
		switch o.Winner {
		case scoring.SideA:
			assert.Greater(t, o.SetsA, o.SetsB)
		case scoring.SideB:
			assert.Greater(t, o.SetsB, o.SetsA)
		default:
			assert.True(t, o.SetsA == o.SetsB || o.Played < 2, "sets=%v outcome=%+v", sets, o)
		}
	}
}

func TestValidateSets(t *testing.T) {
	six := 6
	cases := []struct {
		name string
		sets [3]club.SetScore
		ok   bool
	}{
		{"no scores", [3]club.SetScore{}, true},
		{"two sets", [3]club.SetScore{set(6, 1), set(6, 2)}, true},
		{"three sets", [3]club.SetScore{set(6, 1), set(2, 6), set(7, 5)}, true},
		{"half filled set", [3]club.SetScore{set(6, 1), {Team1: &six}}, false},
		{"missing set two", [3]club.SetScore{set(6, 1)}, false},
		{"only set three", [3]club.SetScore{{}, {}, set(6, 1)}, false},
		{"negative", [3]club.SetScore{set(6, -1), set(6, 2)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := scoring.ValidateSets(tc.sets)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, scoring.ErrInvalidScore)
			}
		})
	}
}

func TestTeam(t *testing.T) {
	d := doubles()
	assert.Equal(t, []string{"p1", "p3"}, scoring.Team(d, scoring.SideA))
	assert.Equal(t, []string{"p2", "p4"}, scoring.Team(d, scoring.SideB))
	assert.Nil(t, scoring.Team(d, scoring.SideNone))

	d.Team2PartnerID = nil
	assert.Equal(t, []string{"p2"}, scoring.Team(d, scoring.SideB), "absent partner is filtered")

	s := singles()
	s.Team1PartnerID = strp("ignored")
	assert.Equal(t, []string{"p1"}, scoring.Team(s, scoring.SideA), "singles never has a partner")
}

func TestDisjoint(t *testing.T) {
	d := doubles()
	assert.True(t, scoring.Disjoint(d))
	d.Team2PartnerID = strp("p1")
	assert.False(t, scoring.Disjoint(d))
}

func TestWinningSide(t *testing.T) {
	d := doubles()
	assert.Equal(t, scoring.SideNone, scoring.WinningSide(d))
	d.WinnerID = strp("p4")
	assert.Equal(t, scoring.SideB, scoring.WinningSide(d))
	d.WinnerID = strp("p1")
	assert.Equal(t, scoring.SideA, scoring.WinningSide(d))
	d.WinnerID = strp("stranger")
	assert.Equal(t, scoring.SideNone, scoring.WinningSide(d))
}

// Winners gain 6 each and losers 3 each, never split across a side.
func TestAwards_PointsPerParticipant(t *testing.T) {
	for _, m := range []*club.Match{singles(), doubles()} {
		for _, side := range []scoring.Side{scoring.SideA, scoring.SideB} {
			var winPts, losePts int
			for _, a := range scoring.Awards(m, side) {
				if a.Delta.Wins == 1 {
					winPts += a.Delta.Points
				} else {
					losePts += a.Delta.Points
				}
				assert.Equal(t, 1, a.Delta.GamesPlayed)
			}
			assert.Equal(t, scoring.WinnerPoints*len(scoring.Team(m, side)), winPts)
			assert.Equal(t, scoring.LoserPoints*len(scoring.Team(m, side.Opponent())), losePts)
		}
	}
}
