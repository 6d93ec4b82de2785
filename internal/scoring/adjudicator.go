package scoring

import (
	"fmt"

	"github.com/mauv0809/club-ladder/internal/club"
)

// Side identifies one of the two competing parties of a match.
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "none"
	}
}

// Opponent returns the other side. SideNone has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// minPlayedSets is the number of recorded sets needed before a match can be decided.
const minPlayedSets = 2

// Outcome is the result of adjudicating a match's set scores.
type Outcome struct {
	SetsA  int
	SetsB  int
	Played int
	Winner Side
}

// Decided reports whether the outcome names a winner.
func (o Outcome) Decided() bool {
	return o.Winner != SideNone
}

// Adjudicate counts the sets each side won strictly and picks the side with
// more sets. Fewer than two recorded sets, or level set counts, leave the
// match without a winner.
func Adjudicate(sets [3]club.SetScore) Outcome {
	var o Outcome
	for _, set := range sets {
		if !set.Complete() {
			continue
		}
		o.Played++
		switch {
		case *set.Team1 > *set.Team2:
			o.SetsA++
		case *set.Team2 > *set.Team1:
			o.SetsB++
		}
	}
	if o.Played < minPlayedSets {
		return o
	}
	switch {
	case o.SetsA > o.SetsB:
		o.Winner = SideA
	case o.SetsB > o.SetsA:
		o.Winner = SideB
	}
	return o
}

// Decide adjudicates the match's stored sets.
func Decide(m *club.Match) Outcome {
	return Adjudicate(m.Sets())
}

// ValidateSets rejects score input that cannot become a finished match.
// No scores at all is valid: the match stays scheduled.
func ValidateSets(sets [3]club.SetScore) error {
	scored := false
	for i, set := range sets {
		if set.Empty() {
			continue
		}
		scored = true
		if !set.Complete() {
			return fmt.Errorf("set %d is missing a score: %w", i+1, ErrInvalidScore)
		}
		if *set.Team1 < 0 || *set.Team2 < 0 {
			return fmt.Errorf("set %d has a negative score: %w", i+1, ErrInvalidScore)
		}
	}
	if scored && (!sets[0].Complete() || !sets[1].Complete()) {
		return fmt.Errorf("sets 1 and 2 are required once scoring begins: %w", ErrInvalidScore)
	}
	return nil
}

// WinnerID returns the id recorded as the match winner for the given side:
// the primary participant of that side. SideNone yields nil.
func WinnerID(m *club.Match, side Side) *string {
	var id string
	switch side {
	case SideA:
		id = m.Player1ID
	case SideB:
		id = m.Player2ID
	default:
		return nil
	}
	return &id
}

// WinningSide maps a match's stored winner back to a side. A nil winner,
// or one that is not a participant, yields SideNone.
func WinningSide(m *club.Match) Side {
	if m.WinnerID == nil {
		return SideNone
	}
	for _, side := range []Side{SideA, SideB} {
		for _, id := range Team(m, side) {
			if id == *m.WinnerID {
				return side
			}
		}
	}
	return SideNone
}
