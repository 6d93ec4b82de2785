package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/scoring"
)

// New creates a new Processor.
func New(store Store, ledger Ledger, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:   store,
		ledger:  ledger,
		pubsub:  pubsub,
		metrics: metrics,
		now:     time.Now,
	}
}

// RecordMatch validates and stores a new match. A match recorded with
// decided scores is stored Finished and finalized immediately.
func (p *Processor) RecordMatch(ctx context.Context, in MatchInput, dryRun bool) (*club.Match, error) {
	m := &club.Match{
		ID:             in.ID,
		TournamentID:   in.TournamentID,
		MatchType:      in.MatchType,
		Player1ID:      in.Player1ID,
		Player2ID:      in.Player2ID,
		Team1PartnerID: in.Team1PartnerID,
		Team2PartnerID: in.Team2PartnerID,
		Round:          in.Round,
		MatchDate:      in.MatchDate,
		Status:         club.MatchStatusScheduled,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.MatchType == "" {
		m.MatchType = club.MatchTypeSingles
	}
	if m.MatchDate.IsZero() {
		m.MatchDate = p.now().UTC()
	}
	if m.TournamentID != nil && *m.TournamentID == "" {
		m.TournamentID = nil
	}

	if err := p.validateParticipants(ctx, m); err != nil {
		return nil, err
	}
	finished, err := applyScores(m, in.ScoreInput)
	if err != nil {
		return nil, fmt.Errorf("processor.RecordMatch: %w", err)
	}

	log.Info("Recording match", "matchID", m.ID, "type", m.MatchType, "status", m.Status)
	if dryRun {
		log.Info("[Dry Run] Would create match", "matchID", m.ID, "status", m.Status, "winner", m.WinnerID)
	} else if err := p.store.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("processor.RecordMatch: %w", err)
	}
	p.metrics.IncMatchesRecorded()

	if finished {
		p.finalize(ctx, m, dryRun)
	}
	return m, nil
}

// UpdateScores sets the scores of an existing match. On a scheduled match
// decided scores finalize it. On a finished match the stored scores and
// winner change but points already applied stay as they are.
func (p *Processor) UpdateScores(ctx context.Context, id string, in ScoreInput, dryRun bool) (*club.Match, error) {
	m, err := p.store.GetMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("processor.UpdateScores: %w", err)
	}

	wasFinished := m.Status == club.MatchStatusFinished
	previousWinner := m.WinnerID

	finished, err := applyScores(m, in)
	if err != nil {
		return nil, fmt.Errorf("processor.UpdateScores: %w", err)
	}
	if wasFinished && !finished {
		return nil, fmt.Errorf("processor.UpdateScores %s: %w", id, ErrAlreadyFinished)
	}
	if wasFinished {
		log.Warn("Editing a finished match. Points already applied are not adjusted.",
			"matchID", m.ID, "previous_winner", previousWinner, "winner", m.WinnerID)
	}

	if dryRun {
		log.Info("[Dry Run] Would update match scores", "matchID", m.ID, "status", m.Status, "winner", m.WinnerID)
	} else if err := p.store.UpdateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("processor.UpdateScores: %w", err)
	}

	if finished && !wasFinished {
		p.finalize(ctx, m, dryRun)
	}
	return m, nil
}

// ProcessMatches finalizes scheduled matches that already carry decided
// scores, such as bulk imports written straight to the database.
func (p *Processor) ProcessMatches(ctx context.Context, dryRun bool) (int, error) {
	log.Info("Starting match processing...")
	matches, err := p.store.ListMatches(ctx, club.MatchFilter{Status: club.MatchStatusScheduled})
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return 0, fmt.Errorf("processor.ProcessMatches: %w", err)
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return 0, nil
	}

	log.Info("Found matches to process", "count", len(matches))
	processed := 0
	for i := range matches {
		startTime := time.Now()
		if p.processMatch(ctx, &matches[i], dryRun) {
			processed++
		}
		duration := time.Since(startTime).Milliseconds()
		p.metrics.ObserveProcessingDuration(float64(duration))
	}
	log.Info("Match processing finished.", "finalized", processed)
	return processed, nil
}

func (p *Processor) processMatch(ctx context.Context, m *club.Match, dryRun bool) bool {
	if err := scoring.ValidateSets(m.Sets()); err != nil {
		log.Warn("Skipping match with invalid scores", "matchID", m.ID, "error", err)
		return false
	}
	outcome := scoring.Decide(m)
	if !outcome.Decided() {
		log.Debug("Match is not decided yet", "matchID", m.ID, "sets_played", outcome.Played)
		return false
	}

	m.WinnerID = scoring.WinnerID(m, outcome.Winner)
	m.Status = club.MatchStatusFinished
	if dryRun {
		log.Info("[Dry Run] Would mark match finished", "matchID", m.ID, "winner", *m.WinnerID)
	} else if err := p.store.UpdateMatch(ctx, m); err != nil {
		log.Error("Failed to update match status", "error", err, "matchID", m.ID)
		return false
	}
	p.finalize(ctx, m, dryRun)
	return true
}

// finalize runs the ledger writer and announces the result. It must only be
// called on the transition to Finished.
func (p *Processor) finalize(ctx context.Context, m *club.Match, dryRun bool) {
	side := scoring.WinningSide(m)
	if dryRun {
		log.Info("[Dry Run] Would apply match points", "matchID", m.ID, "winners", scoring.Team(m, side), "losers", scoring.Team(m, side.Opponent()))
		return
	}

	// Member counter failures are reconciled by a ledger rebuild.
	if err := p.ledger.Apply(ctx, m); err != nil {
		log.Error("Failed to apply match points", "error", err, "matchID", m.ID)
	}
	p.metrics.IncMatchesFinalized()

	event := newFinalizedEvent(m, side, p.now())
	if err := p.pubsub.SendMessage(pubsub.EventMatchFinalized, event); err != nil {
		log.Warn("Failed to publish match-finalized event", "error", err, "matchID", m.ID)
	}
}

// applyScores copies the scores into m and adjudicates them. It reports
// whether the match now has a winner.
func applyScores(m *club.Match, in ScoreInput) (bool, error) {
	sets := in.sets()
	if err := scoring.ValidateSets(sets); err != nil {
		return false, err
	}
	m.Set1, m.Set2, m.Set3 = sets[0], sets[1], sets[2]

	outcome := scoring.Adjudicate(sets)
	if outcome.Played == 0 {
		m.WinnerID = nil
		return false, nil
	}
	if !outcome.Decided() {
		return false, fmt.Errorf("sets %d-%d: %w", outcome.SetsA, outcome.SetsB, scoring.ErrUndecided)
	}
	m.WinnerID = scoring.WinnerID(m, outcome.Winner)
	m.Status = club.MatchStatusFinished
	return true, nil
}

func (p *Processor) validateParticipants(ctx context.Context, m *club.Match) error {
	switch m.MatchType {
	case club.MatchTypeSingles:
		if m.Team1PartnerID != nil || m.Team2PartnerID != nil {
			return fmt.Errorf("singles match with partners: %w", ErrInvalidMatch)
		}
	case club.MatchTypeDoubles:
	default:
		return fmt.Errorf("unknown match type %q: %w", m.MatchType, ErrInvalidMatch)
	}
	if m.Player1ID == "" || m.Player2ID == "" {
		return fmt.Errorf("both players are required: %w", ErrInvalidMatch)
	}
	if !scoring.Disjoint(m) {
		return fmt.Errorf("a member cannot appear twice in a match: %w", ErrInvalidMatch)
	}

	ids := scoring.Participants(m)
	members, err := p.store.GetMembers(ctx, ids)
	if err != nil {
		return fmt.Errorf("processor.validateParticipants: %w", err)
	}
	if len(members) != len(ids) {
		found := make(map[string]bool, len(members))
		for _, mem := range members {
			found[mem.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return fmt.Errorf("member %s: %w", id, club.ErrMemberNotFound)
			}
		}
	}

	if m.TournamentID != nil {
		if _, err := p.store.GetTournament(ctx, *m.TournamentID); err != nil {
			return fmt.Errorf("processor.validateParticipants: %w", err)
		}
	}
	return nil
}

func newFinalizedEvent(m *club.Match, winner scoring.Side, at time.Time) pubsub.MatchFinalizedEvent {
	event := pubsub.MatchFinalizedEvent{
		MatchID:     m.ID,
		MatchType:   string(m.MatchType),
		WinnerIDs:   scoring.Team(m, winner),
		LoserIDs:    scoring.Team(m, winner.Opponent()),
		FinalizedAt: at.Unix(),
	}
	if m.TournamentID != nil {
		event.TournamentID = *m.TournamentID
	}
	for _, set := range m.Sets() {
		if set.Complete() {
			event.Sets = append(event.Sets, pubsub.SetResult{Team1: *set.Team1, Team2: *set.Team2})
		}
	}
	return event
}

// IsValidation reports whether err was caused by the caller's input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMatch) ||
		errors.Is(err, ErrAlreadyFinished) ||
		errors.Is(err, scoring.ErrInvalidScore) ||
		errors.Is(err, scoring.ErrUndecided)
}
