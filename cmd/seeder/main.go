package main

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/database"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/rankings"
)

const (
	numMembers = 40
	numMatches = 500
	// seed keeps generated data reproducible between runs.
	seed = 42
)

// seedTournaments are created with the ids of the built-in static lookup.
var seedTournaments = []struct {
	id       string
	name     string
	category club.Category
	division club.Gender
}{
	{"d4fc8133-1c30-4133-b6ed-ba4545e1f08e", "Men's Singles Ladder", club.CategorySingles, club.GenderMale},
	{"debf25dc-b1bb-4ecf-a194-9f1ddf063bb0", "Women's Singles Ladder", club.CategorySingles, club.GenderFemale},
	{"d9af477a-a257-499b-bf34-61015dcc90b6", "Men's Doubles Ladder", club.CategoryDoubles, club.GenderMale},
	{"bad83357-7ca8-4527-9cfb-885ff0f9abc0", "Women's Doubles Ladder", club.CategoryDoubles, club.GenderFemale},
	{"aa176926-38a3-4f1e-9a51-d269195a4220", "Mixed Doubles Ladder", club.CategoryMixedDoubles, club.GenderUnspecified},
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := club.New(db)
	m := metrics.NewService()
	resolver := rankings.NewResolver(store, rankings.DefaultStaticTables, false, m)
	proc := processor.New(store, rankings.NewLedgerWriter(store, resolver, m), m, pubsub.NewLocal())
	faker := gofakeit.New(seed)

	byGender := map[club.Gender][]string{}
	for i := 0; i < numMembers; i++ {
		gender := club.GenderMale
		if i%2 == 1 {
			gender = club.GenderFemale
		}
		member := &club.Member{
			ID:         uuid.NewString(),
			FullName:   faker.FirstName() + " " + faker.LastName(),
			Email:      faker.Email(),
			Gender:     gender,
			SkillLevel: faker.RandomString([]string{"Beginner", "Intermediate", "Advanced"}),
		}
		if err := store.AddMember(ctx, member); err != nil {
			log.Fatalf("Failed to insert member %s: %s", member.FullName, err)
		}
		byGender[gender] = append(byGender[gender], member.ID)
	}
	log.Info("Inserted members", "count", numMembers)

	for _, t := range seedTournaments {
		err := store.CreateTournament(ctx, &club.Tournament{
			ID:       t.id,
			Name:     t.name,
			Category: t.category,
			Date:     time.Now().UTC(),
			Status:   club.TournamentOngoing,
		})
		if err != nil {
			log.Fatalf("Failed to insert tournament %s: %s", t.name, err)
		}
		table, err := rankings.TableFor(t.category, t.division)
		if err != nil {
			log.Fatalf("No table for tournament %s: %s", t.name, err)
		}
		err = store.RegisterTable(ctx, club.TournamentTable{
			TournamentID:       t.id,
			TableName:          table,
			TournamentName:     t.name,
			TournamentCategory: t.category,
		})
		if err != nil {
			log.Fatalf("Failed to register table for %s: %s", t.name, err)
		}
	}
	log.Info("Inserted tournaments", "count", len(seedTournaments))

	startTime := time.Now()
	recorded := 0
	for i := 0; i < numMatches; i++ {
		t := seedTournaments[faker.Number(0, len(seedTournaments)-1)]
		in := randomMatch(faker, t.id, t.category, t.division, byGender)
		if _, err := proc.RecordMatch(ctx, in, false); err != nil {
			log.Warn("Skipping generated match", "error", err)
			continue
		}
		recorded++
	}
	log.Info("Seeding complete", "matches", recorded, "duration", time.Since(startTime))
}

// randomMatch draws distinct participants for the tournament's category and
// plays two or three sets to eleven.
func randomMatch(f *gofakeit.Faker, tournamentID string, category club.Category, division club.Gender, byGender map[club.Gender][]string) processor.MatchInput {
	pick := func(pool []string, n int) []string {
		shuffled := append([]string(nil), pool...)
		f.ShuffleAnySlice(shuffled)
		return shuffled[:n]
	}

	in := processor.MatchInput{
		TournamentID: &tournamentID,
		MatchDate:    f.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).UTC(),
	}
	switch category {
	case club.CategorySingles:
		p := pick(byGender[division], 2)
		in.MatchType = club.MatchTypeSingles
		in.Player1ID, in.Player2ID = p[0], p[1]
	case club.CategoryDoubles:
		p := pick(byGender[division], 4)
		in.MatchType = club.MatchTypeDoubles
		in.Player1ID, in.Team1PartnerID, in.Player2ID, in.Team2PartnerID = p[0], &p[1], p[2], &p[3]
	default:
		men := pick(byGender[club.GenderMale], 2)
		women := pick(byGender[club.GenderFemale], 2)
		in.MatchType = club.MatchTypeDoubles
		in.Player1ID, in.Team1PartnerID, in.Player2ID, in.Team2PartnerID = men[0], &women[0], men[1], &women[1]
	}

	set := func() club.SetScore {
		loser := f.Number(0, 9)
		a, b := 11, loser
		if f.Bool() {
			a, b = b, a
		}
		return club.SetScore{Team1: &a, Team2: &b}
	}
	in.Set1, in.Set2 = set(), set()
	if (*in.Set1.Team1 > *in.Set1.Team2) != (*in.Set2.Team1 > *in.Set2.Team2) {
		in.Set3 = set()
	}
	return in
}
