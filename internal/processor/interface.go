package processor

import (
	"context"

	"github.com/mauv0809/club-ladder/internal/club"
)

// Store defines the database operations required by the processor.
type Store interface {
	club.MatchStore
	GetMembers(ctx context.Context, ids []string) ([]club.Member, error)
	GetTournament(ctx context.Context, id string) (*club.Tournament, error)
}

// Ledger applies a finished match's points. It runs once per match.
type Ledger interface {
	Apply(ctx context.Context, m *club.Match) error
}
