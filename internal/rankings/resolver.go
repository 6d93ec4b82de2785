package rankings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
)

// Known leaderboard tables.
const (
	TableMensSingles   = "tspc_mens_singles_results"
	TableWomensSingles = "tspc_womens_singles_results"
	TableMensDoubles   = "tspc_mens_doubles_results"
	TableWomensDoubles = "tspc_womens_doubles_results"
	TableMixedDoubles  = "tspc_mixed_doubles_results"
)

// KnownTables lists every built-in leaderboard table.
var KnownTables = []string{TableMensSingles, TableWomensSingles, TableMensDoubles, TableWomensDoubles, TableMixedDoubles}

// DefaultStaticTables is the built-in tournament lookup used when no tables file is configured.
var DefaultStaticTables = map[string]string{
	"d9af477a-a257-499b-bf34-61015dcc90b6": TableMensDoubles,
	"bad83357-7ca8-4527-9cfb-885ff0f9abc0": TableWomensDoubles,
	"d4fc8133-1c30-4133-b6ed-ba4545e1f08e": TableMensSingles,
	"debf25dc-b1bb-4ecf-a194-9f1ddf063bb0": TableWomensSingles,
	"aa176926-38a3-4f1e-9a51-d269195a4220": TableMixedDoubles,
}

// Tier names the step of resolution that produced a table.
type Tier string

const (
	TierRegistry  Tier = "registry"
	TierStatic    Tier = "static"
	TierHeuristic Tier = "heuristic"
)

// Resolution is a resolved leaderboard table.
type Resolution struct {
	TableName string
	Tier      Tier
}

// TableSource is what the resolver needs from storage.
type TableSource interface {
	club.TournamentStore
	club.TableRegistry
}

// Resolver maps tournaments to leaderboard tables: registry first, then the
// static lookup, then (if enabled) the name and category heuristic.
type Resolver struct {
	store     TableSource
	static    map[string]string
	heuristic bool
	metrics   metrics.Metrics
}

// NewResolver creates a Resolver. A nil static map uses DefaultStaticTables.
func NewResolver(store TableSource, static map[string]string, heuristic bool, metrics metrics.Metrics) *Resolver {
	if static == nil {
		static = DefaultStaticTables
	}
	return &Resolver{store: store, static: static, heuristic: heuristic, metrics: metrics}
}

// Resolve returns the leaderboard table for a tournament. A heuristic hit is
// written to the registry so later lookups take the first tier.
func (r *Resolver) Resolve(ctx context.Context, tournamentID string) (Resolution, error) {
	return r.resolve(ctx, tournamentID, true)
}

func (r *Resolver) resolve(ctx context.Context, tournamentID string, persist bool) (Resolution, error) {
	entry, err := r.store.LookupTable(ctx, tournamentID)
	switch {
	case err == nil && entry.TableName != "":
		return Resolution{TableName: entry.TableName, Tier: TierRegistry}, nil
	case err != nil && !errors.Is(err, club.ErrTableNotRegistered):
		log.Warn("Registry lookup failed, trying fallbacks", "tournamentID", tournamentID, "error", err)
	}

	if table, ok := r.static[tournamentID]; ok {
		return Resolution{TableName: table, Tier: TierStatic}, nil
	}

	if r.heuristic {
		t, err := r.store.GetTournament(ctx, tournamentID)
		if err != nil && !errors.Is(err, club.ErrTournamentNotFound) {
			return Resolution{}, fmt.Errorf("rankings.Resolve: %w", err)
		}
		if t != nil {
			if table, ok := HeuristicTable(t.Name, t.Category); ok {
				log.Warn("Resolved leaderboard table by name heuristic", "tournamentID", tournamentID, "name", t.Name, "table", table)
				r.metrics.IncHeuristicResolutions()
				if persist {
					r.register(ctx, t, table)
				}
				return Resolution{TableName: table, Tier: TierHeuristic}, nil
			}
		}
	}

	r.metrics.IncUnresolvedTables()
	return Resolution{}, fmt.Errorf("tournament %s: %w", tournamentID, ErrTableUnresolved)
}

func (r *Resolver) register(ctx context.Context, t *club.Tournament, table string) {
	err := r.store.RegisterTable(ctx, club.TournamentTable{
		TournamentID:       t.ID,
		TableName:          table,
		TournamentName:     t.Name,
		TournamentCategory: t.Category,
	})
	if err != nil {
		log.Error("Failed to register heuristic table", "tournamentID", t.ID, "table", table, "error", err)
	}
}

// CheckStaticTables rejects static lookup entries that name a table outside
// KnownTables.
func CheckStaticTables(static map[string]string) error {
	for id, table := range static {
		if !slices.Contains(KnownTables, table) {
			return fmt.Errorf("tournament %s table %q: %w", id, table, ErrUnknownTable)
		}
	}
	return nil
}

// HeuristicTable guesses a table from a tournament's name and category.
// Only whole words count, so "Tournament" never reads as "men".
func HeuristicTable(name string, category club.Category) (string, bool) {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool { return !unicode.IsLetter(r) }) {
		words[w] = true
	}
	hasWomen := words["women"] || words["womens"]
	hasMen := (words["men"] || words["mens"]) && !hasWomen
	hasMixed := words["mixed"]

	switch {
	case category == club.CategorySingles && hasMen:
		return TableMensSingles, true
	case category == club.CategorySingles && hasWomen:
		return TableWomensSingles, true
	case category == club.CategoryDoubles && hasMen && !hasMixed:
		return TableMensDoubles, true
	case category == club.CategoryDoubles && hasWomen:
		return TableWomensDoubles, true
	case category == club.CategoryMixedDoubles || hasMixed:
		return TableMixedDoubles, true
	}
	return "", false
}

// TableFor picks the built-in table for a new tournament from its category
// and the gender division it is played in. Mixed doubles ignores division.
func TableFor(category club.Category, division club.Gender) (string, error) {
	switch {
	case category == club.CategoryMixedDoubles:
		return TableMixedDoubles, nil
	case category == club.CategorySingles && division == club.GenderMale:
		return TableMensSingles, nil
	case category == club.CategorySingles && division == club.GenderFemale:
		return TableWomensSingles, nil
	case category == club.CategoryDoubles && division == club.GenderMale:
		return TableMensDoubles, nil
	case category == club.CategoryDoubles && division == club.GenderFemale:
		return TableWomensDoubles, nil
	}
	return "", fmt.Errorf("category %q division %q: %w", category, division, ErrTableUnresolved)
}
