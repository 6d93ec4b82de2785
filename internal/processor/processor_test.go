package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	ApplyFunc  func(ctx context.Context, m *club.Match) error
	ApplyCalls []club.Match
}

func (l *mockLedger) Apply(ctx context.Context, m *club.Match) error {
	l.ApplyCalls = append(l.ApplyCalls, *m)
	if l.ApplyFunc != nil {
		return l.ApplyFunc(ctx, m)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func set(a, b int) club.SetScore {
	return club.SetScore{Team1: ptr(a), Team2: ptr(b)}
}

type fixture struct {
	store  *club.MockStore
	ledger *mockLedger
	pubsub *pubsub.MockPubSubClient
	metr   *metrics.Mock
	p      *Processor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  club.NewMock(),
		ledger: &mockLedger{},
		pubsub: pubsub.NewMock(),
		metr:   metrics.NewMock(),
	}
	f.store.GetMembersFunc = func(ctx context.Context, ids []string) ([]club.Member, error) {
		members := make([]club.Member, 0, len(ids))
		for _, id := range ids {
			members = append(members, club.Member{ID: id, FullName: "Member " + id})
		}
		return members, nil
	}
	f.p = New(f.store, f.ledger, f.metr, f.pubsub)
	return f
}

func TestRecordMatch(t *testing.T) {
	t.Run("match without scores is stored scheduled", func(t *testing.T) {
		f := setup(t)

		m, err := f.p.RecordMatch(context.Background(), MatchInput{Player1ID: "p1", Player2ID: "p2"}, false)

		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, club.MatchTypeSingles, m.MatchType)
		assert.Equal(t, club.MatchStatusScheduled, m.Status)
		assert.Nil(t, m.WinnerID)
		require.Len(t, f.store.CreateMatchCalls, 1)
		assert.Empty(t, f.ledger.ApplyCalls, "Scheduled matches award nothing")
		assert.Empty(t, f.pubsub.SendMessageCalls)
		assert.Equal(t, 1, f.metr.MatchesRecorded())
	})

	t.Run("decided singles match is finalized once", func(t *testing.T) {
		f := setup(t)
		in := MatchInput{
			Player1ID:  "p1",
			Player2ID:  "p2",
			ScoreInput: ScoreInput{Set1: set(11, 5), Set2: set(11, 7)},
		}

		m, err := f.p.RecordMatch(context.Background(), in, false)

		require.NoError(t, err)
		assert.Equal(t, club.MatchStatusFinished, m.Status)
		require.NotNil(t, m.WinnerID)
		assert.Equal(t, "p1", *m.WinnerID)
		require.Len(t, f.ledger.ApplyCalls, 1)
		assert.Equal(t, m.ID, f.ledger.ApplyCalls[0].ID)
		assert.Equal(t, 1, f.metr.MatchesFinalized())

		sent := f.pubsub.Sent(pubsub.EventMatchFinalized)
		require.Len(t, sent, 1)
		event, ok := sent[0].(pubsub.MatchFinalizedEvent)
		require.True(t, ok)
		assert.Equal(t, []string{"p1"}, event.WinnerIDs)
		assert.Equal(t, []string{"p2"}, event.LoserIDs)
		assert.Equal(t, []pubsub.SetResult{{Team1: 11, Team2: 5}, {Team1: 11, Team2: 7}}, event.Sets)
	})

	t.Run("doubles match carries both partners in the event", func(t *testing.T) {
		f := setup(t)
		in := MatchInput{
			TournamentID:   ptr("t1"),
			MatchType:      club.MatchTypeDoubles,
			Player1ID:      "a1",
			Team1PartnerID: ptr("a2"),
			Player2ID:      "b1",
			Team2PartnerID: ptr("b2"),
			ScoreInput:     ScoreInput{Set1: set(11, 13), Set2: set(11, 13)},
		}
		f.store.GetTournamentFunc = func(ctx context.Context, id string) (*club.Tournament, error) {
			return &club.Tournament{ID: id}, nil
		}

		m, err := f.p.RecordMatch(context.Background(), in, false)

		require.NoError(t, err)
		assert.Equal(t, "b1", *m.WinnerID)
		event := f.pubsub.Sent(pubsub.EventMatchFinalized)[0].(pubsub.MatchFinalizedEvent)
		assert.Equal(t, "t1", event.TournamentID)
		assert.Equal(t, []string{"b1", "b2"}, event.WinnerIDs)
		assert.Equal(t, []string{"a1", "a2"}, event.LoserIDs)
	})

	t.Run("dry run stores and applies nothing", func(t *testing.T) {
		f := setup(t)
		in := MatchInput{Player1ID: "p1", Player2ID: "p2", ScoreInput: ScoreInput{Set1: set(6, 1), Set2: set(6, 2)}}

		m, err := f.p.RecordMatch(context.Background(), in, true)

		require.NoError(t, err)
		assert.Equal(t, club.MatchStatusFinished, m.Status)
		assert.Empty(t, f.store.CreateMatchCalls)
		assert.Empty(t, f.ledger.ApplyCalls)
		assert.Empty(t, f.pubsub.SendMessageCalls)
	})

	t.Run("ledger failure does not fail the recording", func(t *testing.T) {
		f := setup(t)
		f.ledger.ApplyFunc = func(ctx context.Context, m *club.Match) error { return errors.New("db down") }
		in := MatchInput{Player1ID: "p1", Player2ID: "p2", ScoreInput: ScoreInput{Set1: set(6, 1), Set2: set(6, 2)}}

		_, err := f.p.RecordMatch(context.Background(), in, false)

		require.NoError(t, err)
		assert.Len(t, f.pubsub.SendMessageCalls, 1)
	})

	t.Run("publish failure does not fail the recording", func(t *testing.T) {
		f := setup(t)
		f.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error { return errors.New("no topic") }
		in := MatchInput{Player1ID: "p1", Player2ID: "p2", ScoreInput: ScoreInput{Set1: set(6, 1), Set2: set(6, 2)}}

		_, err := f.p.RecordMatch(context.Background(), in, false)

		require.NoError(t, err)
		assert.Len(t, f.ledger.ApplyCalls, 1)
	})
}

func TestRecordMatch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      MatchInput
		wantErr error
	}{
		{
			name:    "missing player",
			in:      MatchInput{Player1ID: "p1"},
			wantErr: ErrInvalidMatch,
		},
		{
			name:    "same member on both sides",
			in:      MatchInput{Player1ID: "p1", Player2ID: "p1"},
			wantErr: ErrInvalidMatch,
		},
		{
			name:    "partner in singles",
			in:      MatchInput{MatchType: club.MatchTypeSingles, Player1ID: "p1", Player2ID: "p2", Team1PartnerID: ptr("p3")},
			wantErr: ErrInvalidMatch,
		},
		{
			name:    "unknown match type",
			in:      MatchInput{MatchType: "Triples", Player1ID: "p1", Player2ID: "p2"},
			wantErr: ErrInvalidMatch,
		},
		{
			name:    "missing second set",
			in:      MatchInput{Player1ID: "p1", Player2ID: "p2", ScoreInput: ScoreInput{Set1: set(11, 5)}},
			wantErr: scoring.ErrInvalidScore,
		},
		{
			name:    "half filled set",
			in:      MatchInput{Player1ID: "p1", Player2ID: "p2", ScoreInput: ScoreInput{Set1: set(11, 5), Set2: club.SetScore{Team1: ptr(11)}}},
			wantErr: scoring.ErrInvalidScore,
		},
		{
			name:    "tied sets",
			in:      MatchInput{Player1ID: "p1", Player2ID: "p2", ScoreInput: ScoreInput{Set1: set(11, 11), Set2: set(11, 11)}},
			wantErr: scoring.ErrUndecided,
		},
		{
			name:    "unknown tournament",
			in:      MatchInput{TournamentID: ptr("nope"), Player1ID: "p1", Player2ID: "p2"},
			wantErr: club.ErrTournamentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			_, err := f.p.RecordMatch(context.Background(), tt.in, false)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.CreateMatchCalls, "Nothing should be stored")
			assert.Empty(t, f.ledger.ApplyCalls)
		})
	}

	t.Run("unknown member", func(t *testing.T) {
		f := setup(t)
		f.store.GetMembersFunc = func(ctx context.Context, ids []string) ([]club.Member, error) {
			return []club.Member{{ID: "p1"}}, nil
		}

		_, err := f.p.RecordMatch(context.Background(), MatchInput{Player1ID: "p1", Player2ID: "ghost"}, false)

		assert.ErrorIs(t, err, club.ErrMemberNotFound)
		assert.ErrorContains(t, err, "ghost")
	})
}

func TestUpdateScores(t *testing.T) {
	scheduled := func() *club.Match {
		return &club.Match{ID: "m1", MatchType: club.MatchTypeSingles, Player1ID: "p1", Player2ID: "p2", Status: club.MatchStatusScheduled}
	}

	t.Run("decided scores finalize a scheduled match", func(t *testing.T) {
		f := setup(t)
		f.store.GetMatchFunc = func(ctx context.Context, id string) (*club.Match, error) { return scheduled(), nil }

		m, err := f.p.UpdateScores(context.Background(), "m1", ScoreInput{Set1: set(11, 9), Set2: set(8, 11), Set3: set(11, 9)}, false)

		require.NoError(t, err)
		assert.Equal(t, club.MatchStatusFinished, m.Status)
		assert.Equal(t, "p1", *m.WinnerID)
		require.Len(t, f.store.UpdateMatchCalls, 1)
		assert.Len(t, f.ledger.ApplyCalls, 1)
		assert.Len(t, f.pubsub.Sent(pubsub.EventMatchFinalized), 1)
	})

	t.Run("editing a finished match does not reapply points", func(t *testing.T) {
		f := setup(t)
		f.store.GetMatchFunc = func(ctx context.Context, id string) (*club.Match, error) {
			m := scheduled()
			m.Set1, m.Set2 = set(11, 5), set(11, 7)
			m.WinnerID = ptr("p1")
			m.Status = club.MatchStatusFinished
			return m, nil
		}

		m, err := f.p.UpdateScores(context.Background(), "m1", ScoreInput{Set1: set(5, 11), Set2: set(7, 11)}, false)

		require.NoError(t, err)
		assert.Equal(t, "p2", *m.WinnerID, "The stored winner follows the new scores")
		require.Len(t, f.store.UpdateMatchCalls, 1)
		assert.Empty(t, f.ledger.ApplyCalls, "Points already applied must not change")
		assert.Empty(t, f.pubsub.SendMessageCalls)
	})

	t.Run("clearing scores of a finished match is rejected", func(t *testing.T) {
		f := setup(t)
		f.store.GetMatchFunc = func(ctx context.Context, id string) (*club.Match, error) {
			m := scheduled()
			m.Status = club.MatchStatusFinished
			return m, nil
		}

		_, err := f.p.UpdateScores(context.Background(), "m1", ScoreInput{}, false)

		assert.ErrorIs(t, err, ErrAlreadyFinished)
		assert.Empty(t, f.store.UpdateMatchCalls)
	})

	t.Run("unknown match", func(t *testing.T) {
		f := setup(t)

		_, err := f.p.UpdateScores(context.Background(), "missing", ScoreInput{}, false)

		assert.ErrorIs(t, err, club.ErrMatchNotFound)
	})

	t.Run("invalid scores leave the match untouched", func(t *testing.T) {
		f := setup(t)
		f.store.GetMatchFunc = func(ctx context.Context, id string) (*club.Match, error) { return scheduled(), nil }

		_, err := f.p.UpdateScores(context.Background(), "m1", ScoreInput{Set1: set(11, 5)}, false)

		assert.ErrorIs(t, err, scoring.ErrInvalidScore)
		assert.True(t, IsValidation(err))
		assert.Empty(t, f.store.UpdateMatchCalls)
	})
}

func TestProcessMatches(t *testing.T) {
	t.Run("finalizes decided scheduled matches only", func(t *testing.T) {
		f := setup(t)
		f.store.ListMatchesFunc = func(ctx context.Context, filter club.MatchFilter) ([]club.Match, error) {
			assert.Equal(t, club.MatchStatusScheduled, filter.Status)
			return []club.Match{
				{ID: "decided", MatchType: club.MatchTypeSingles, Player1ID: "p1", Player2ID: "p2", Set1: set(3, 6), Set2: set(4, 6), Status: club.MatchStatusScheduled},
				{ID: "unplayed", MatchType: club.MatchTypeSingles, Player1ID: "p1", Player2ID: "p3", Status: club.MatchStatusScheduled},
				{ID: "tied", MatchType: club.MatchTypeSingles, Player1ID: "p2", Player2ID: "p3", Set1: set(6, 6), Set2: set(6, 6), Status: club.MatchStatusScheduled},
				{ID: "broken", MatchType: club.MatchTypeSingles, Player1ID: "p2", Player2ID: "p3", Set1: set(6, 1), Status: club.MatchStatusScheduled},
			}, nil
		}

		n, err := f.p.ProcessMatches(context.Background(), false)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		require.Len(t, f.store.UpdateMatchCalls, 1)
		updated := f.store.UpdateMatchCalls[0]
		assert.Equal(t, "decided", updated.ID)
		assert.Equal(t, club.MatchStatusFinished, updated.Status)
		assert.Equal(t, "p2", *updated.WinnerID)
		assert.Len(t, f.ledger.ApplyCalls, 1)
	})

	t.Run("dry run only logs", func(t *testing.T) {
		f := setup(t)
		f.store.ListMatchesFunc = func(ctx context.Context, filter club.MatchFilter) ([]club.Match, error) {
			return []club.Match{
				{ID: "decided", MatchType: club.MatchTypeSingles, Player1ID: "p1", Player2ID: "p2", Set1: set(6, 3), Set2: set(6, 4)},
			}, nil
		}

		n, err := f.p.ProcessMatches(context.Background(), true)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Empty(t, f.store.UpdateMatchCalls)
		assert.Empty(t, f.ledger.ApplyCalls)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		f := setup(t)
		f.store.ListMatchesFunc = func(ctx context.Context, filter club.MatchFilter) ([]club.Match, error) {
			return nil, errors.New("boom")
		}

		_, err := f.p.ProcessMatches(context.Background(), false)

		assert.Error(t, err)
	})
}
