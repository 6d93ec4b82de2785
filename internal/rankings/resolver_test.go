package rankings_test

import (
	"context"
	"testing"

	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/rankings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_RegistryWinsOverStatic(t *testing.T) {
	fx, teardown := setupTestDB(t, map[string]string{"t1": rankings.TableMensSingles}, true)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, fx.store.RegisterTable(ctx, club.TournamentTable{TournamentID: "t1", TableName: "custom_results"}))

	res, err := fx.resolver.Resolve(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, rankings.Resolution{TableName: "custom_results", Tier: rankings.TierRegistry}, res)
}

func TestResolve_StaticDefaults(t *testing.T) {
	fx, teardown := setupTestDB(t, nil, false)
	defer teardown()

	res, err := fx.resolver.Resolve(context.Background(), "aa176926-38a3-4f1e-9a51-d269195a4220")
	require.NoError(t, err)
	assert.Equal(t, rankings.TableMixedDoubles, res.TableName)
	assert.Equal(t, rankings.TierStatic, res.Tier)
}

func TestResolve_HeuristicRegistersResult(t *testing.T) {
	fx, teardown := setupTestDB(t, map[string]string{}, true)
	defer teardown()
	ctx := context.Background()

	fx.addTournament(t, "t2", "Summer Women's Singles", club.CategorySingles)

	res, err := fx.resolver.Resolve(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, rankings.TableWomensSingles, res.TableName)
	assert.Equal(t, rankings.TierHeuristic, res.Tier)
	assert.Equal(t, 1, fx.metrics.HeuristicResolutions())

	entry, err := fx.store.LookupTable(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, rankings.TableWomensSingles, entry.TableName)

	res, err = fx.resolver.Resolve(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, rankings.TierRegistry, res.Tier)
}

func TestResolve_HeuristicDisabled(t *testing.T) {
	fx, teardown := setupTestDB(t, map[string]string{}, false)
	defer teardown()

	fx.addTournament(t, "t3", "Men's Singles", club.CategorySingles)

	_, err := fx.resolver.Resolve(context.Background(), "t3")
	assert.ErrorIs(t, err, rankings.ErrTableUnresolved)
	assert.Equal(t, 1, fx.metrics.UnresolvedTables())
}

func TestHeuristicTable(t *testing.T) {
	cases := []struct {
		name     string
		category club.Category
		want     string
	}{
		{"Men's Singles", club.CategorySingles, rankings.TableMensSingles},
		{"Women's Singles", club.CategorySingles, rankings.TableWomensSingles},
		{"MEN DOUBLES CUP", club.CategoryDoubles, rankings.TableMensDoubles},
		{"Women's Doubles", club.CategoryDoubles, rankings.TableWomensDoubles},
		{"Club Night", club.CategoryMixedDoubles, rankings.TableMixedDoubles},
		{"Mixed Men Doubles", club.CategoryDoubles, rankings.TableMixedDoubles},
		{"Autumn Open", club.CategorySingles, ""},
		{"Ladies Singles Tournament", club.CategorySingles, ""},
		{"Tournament of Champions", club.CategoryDoubles, ""},
		{"Womens Singles Tournament", club.CategorySingles, rankings.TableWomensSingles},
		{"Mens-Doubles Tournament", club.CategoryDoubles, rankings.TableMensDoubles},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := rankings.HeuristicTable(tc.name, tc.category)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want != "", ok)
		})
	}
}

func TestTableFor(t *testing.T) {
	table, err := rankings.TableFor(club.CategoryDoubles, club.GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, rankings.TableWomensDoubles, table)

	table, err = rankings.TableFor(club.CategoryMixedDoubles, club.GenderUnspecified)
	require.NoError(t, err)
	assert.Equal(t, rankings.TableMixedDoubles, table)

	_, err = rankings.TableFor(club.CategorySingles, club.GenderUnspecified)
	assert.ErrorIs(t, err, rankings.ErrTableUnresolved)
}

func TestCheckStaticTables(t *testing.T) {
	require.NoError(t, rankings.CheckStaticTables(rankings.DefaultStaticTables))
	require.NoError(t, rankings.CheckStaticTables(map[string]string{}))

	err := rankings.CheckStaticTables(map[string]string{"t1": "tspc_mens_singles"})
	assert.ErrorIs(t, err, rankings.ErrUnknownTable)
}
