package processor

import (
	"errors"
	"time"

	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/pubsub"
)

var (
	ErrInvalidMatch    = errors.New("invalid match")
	ErrAlreadyFinished = errors.New("match already finished")
)

// Processor records matches and finalizes them exactly once.
type Processor struct {
	store   Store
	ledger  Ledger
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
	now     func() time.Time
}

// ScoreInput carries the three set scores of a match. Unplayed sets are left nil.
type ScoreInput struct {
	Set1 club.SetScore `json:"set1"`
	Set2 club.SetScore `json:"set2"`
	Set3 club.SetScore `json:"set3"`
}

func (s ScoreInput) sets() [3]club.SetScore {
	return [3]club.SetScore{s.Set1, s.Set2, s.Set3}
}

// MatchInput describes a match to record. ID is generated when empty.
type MatchInput struct {
	ID             string         `json:"id,omitempty"`
	TournamentID   *string        `json:"tournament_id,omitempty"`
	MatchType      club.MatchType `json:"match_type"`
	Player1ID      string         `json:"player1_id"`
	Player2ID      string         `json:"player2_id"`
	Team1PartnerID *string        `json:"team1_partner_id,omitempty"`
	Team2PartnerID *string        `json:"team2_partner_id,omitempty"`
	Round          *string        `json:"round,omitempty"`
	MatchDate      time.Time      `json:"match_date"`
	ScoreInput
}
