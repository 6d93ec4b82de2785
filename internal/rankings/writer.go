package rankings

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/scoring"
)

// LedgerStore is what the ledger writer needs from storage.
type LedgerStore interface {
	club.MemberStore
	club.LeaderboardTables
}

// LedgerWriter applies a finished match's points to member counters and to
// its tournament's leaderboard table.
type LedgerWriter struct {
	store    LedgerStore
	resolver *Resolver
	metrics  metrics.Metrics
}

// NewLedgerWriter creates a LedgerWriter.
func NewLedgerWriter(store LedgerStore, resolver *Resolver, metrics metrics.Metrics) *LedgerWriter {
	return &LedgerWriter{store: store, resolver: resolver, metrics: metrics}
}

// Apply adds the match's deltas once. Calling it twice for the same match
// counts the match twice. Only member counter failures are returned:
// leaderboard problems are logged and never undo the member update.
func (w *LedgerWriter) Apply(ctx context.Context, m *club.Match) error {
	side := scoring.WinningSide(m)
	if side == scoring.SideNone {
		return fmt.Errorf("rankings.Apply %s: %w", m.ID, ErrNoWinner)
	}
	awards := scoring.Awards(m, side)

	var memberErrs []error
	for _, a := range awards {
		if err := w.store.ApplyMemberDelta(ctx, a.MemberID, a.Delta); err != nil {
			log.Error("Failed to update member counters", "matchID", m.ID, "memberID", a.MemberID, "error", err)
			w.metrics.IncMemberWriteFailures()
			memberErrs = append(memberErrs, err)
		}
	}
	memberErr := errors.Join(memberErrs...)

	if m.TournamentID == nil || *m.TournamentID == "" {
		return memberErr
	}
	w.applyLeaderboard(ctx, m, *m.TournamentID, awards)
	return memberErr
}

func (w *LedgerWriter) applyLeaderboard(ctx context.Context, m *club.Match, tournamentID string, awards []scoring.Award) {
	res, err := w.resolver.Resolve(ctx, tournamentID)
	if err != nil {
		log.Warn("No leaderboard table for tournament, skipping", "matchID", m.ID, "tournamentID", tournamentID, "error", err)
		return
	}

	ids := make([]string, len(awards))
	for i, a := range awards {
		ids[i] = a.MemberID
	}
	members, err := w.store.GetMembers(ctx, ids)
	if err != nil {
		log.Error("Failed to load members for leaderboard", "matchID", m.ID, "table", res.TableName, "error", err)
		w.metrics.IncLeaderboardWriteFailures()
		return
	}
	names := indexMembers(members)

	table := w.store.LeaderboardTable(res.TableName)
	for _, a := range awards {
		member, ok := names[a.MemberID]
		if !ok {
			log.Warn("Skipping leaderboard row for unknown member", "matchID", m.ID, "memberID", a.MemberID)
			continue
		}
		if err := table.ApplyDelta(ctx, a.MemberID, member.FullName, a.Delta); err != nil {
			log.Error("Failed to update leaderboard row", "matchID", m.ID, "table", res.TableName, "memberID", a.MemberID, "error", err)
			w.metrics.IncLeaderboardWriteFailures()
		}
	}
	log.Debug("Leaderboard updated", "matchID", m.ID, "table", res.TableName, "tier", res.Tier)
}
