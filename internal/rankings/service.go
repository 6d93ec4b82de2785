package rankings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Source names where a leaderboard's numbers came from.
type Source string

const (
	SourceMembers Source = "members"
	SourceTable   Source = "table"
	SourceLive    Source = "live"
)

// AllTournaments selects the overall leaderboard.
const AllTournaments = "All"

// rebuildConcurrency bounds parallel table resolution during a rebuild.
const rebuildConcurrency = 4

// Query selects a leaderboard.
type Query struct {
	TournamentID string
	Gender       club.Gender
	// Live forces recomputation from match rows for a tournament.
	Live bool
}

// Leaderboard is a ranked, optionally gender-filtered list of standings.
type Leaderboard struct {
	TournamentID string      `json:"tournament_id,omitempty"`
	Table        string      `json:"table,omitempty"`
	Source       Source      `json:"source"`
	Gender       club.Gender `json:"gender,omitempty"`
	Standings    []Standing  `json:"standings"`
}

// Service answers ranking queries and rebuilds the derived ledgers.
type Service struct {
	store    club.ClubStore
	resolver *Resolver
	metrics  metrics.Metrics
}

// NewService creates a ranking Service.
func NewService(store club.ClubStore, resolver *Resolver, metrics metrics.Metrics) *Service {
	return &Service{store: store, resolver: resolver, metrics: metrics}
}

// Rankings returns the leaderboard for q. Without a tournament it ranks the
// members' running counters. For a tournament it reads the resolved table
// and falls back to a live fold of the tournament's finished matches when
// the table is unresolvable, empty or unreadable.
func (s *Service) Rankings(ctx context.Context, q Query) (*Leaderboard, error) {
	start := time.Now()
	lb, err := s.rankings(ctx, q)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRankingQuery(string(lb.Source), time.Since(start).Seconds())
	return lb, nil
}

func (s *Service) rankings(ctx context.Context, q Query) (*Leaderboard, error) {
	if q.TournamentID == "" || q.TournamentID == AllTournaments {
		members, err := s.store.ListMembers(ctx)
		if err != nil {
			return nil, fmt.Errorf("rankings.Rankings: %w", err)
		}
		return &Leaderboard{
			Source:    SourceMembers,
			Gender:    q.Gender,
			Standings: Rank(entriesFromMembers(members), q.Gender),
		}, nil
	}

	if _, err := s.store.GetTournament(ctx, q.TournamentID); err != nil {
		return nil, err
	}

	if !q.Live {
		lb, err := s.fromTable(ctx, q)
		if err == nil {
			return lb, nil
		}
		log.Info("Falling back to live rankings", "tournamentID", q.TournamentID, "reason", err)
	}
	return s.live(ctx, q)
}

var errEmptyTable = errors.New("leaderboard table is empty")

func (s *Service) fromTable(ctx context.Context, q Query) (*Leaderboard, error) {
	res, err := s.resolver.Resolve(ctx, q.TournamentID)
	if err != nil {
		return nil, err
	}

	var (
		rows    []club.LeaderboardRow
		members []club.Member
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.LeaderboardTable(res.TableName).ListRows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.store.ListMembers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errEmptyTable
	}

	return &Leaderboard{
		TournamentID: q.TournamentID,
		Table:        res.TableName,
		Source:       SourceTable,
		Gender:       q.Gender,
		Standings:    Rank(entriesFromRows(rows, indexMembers(members)), q.Gender),
	}, nil
}

func (s *Service) live(ctx context.Context, q Query) (*Leaderboard, error) {
	var (
		matches []club.Match
		members []club.Member
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.store.ListMatches(gctx, club.MatchFilter{TournamentID: q.TournamentID, Status: club.MatchStatusFinished})
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.store.ListMembers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rankings.live: %w", err)
	}

	return &Leaderboard{
		TournamentID: q.TournamentID,
		Source:       SourceLive,
		Gender:       q.Gender,
		Standings:    Rank(entriesFromTotals(Accumulate(matches), indexMembers(members)), q.Gender),
	}, nil
}

// RebuildReport summarizes a rebuild.
type RebuildReport struct {
	Matches    int            `json:"matches"`
	Members    int            `json:"members"`
	Boards     map[string]int `json:"boards"`
	Unresolved []string       `json:"unresolved_tournaments"`
	DryRun     bool           `json:"dry_run"`
}

// Rebuild recomputes every member counter and leaderboard table from the
// finished matches and replaces the stored values in one transaction.
// Leaderboard rows get fresh rank positions.
func (s *Service) Rebuild(ctx context.Context, dryRun bool) (*RebuildReport, error) {
	matches, err := s.store.ListMatches(ctx, club.MatchFilter{Status: club.MatchStatusFinished})
	if err != nil {
		return nil, fmt.Errorf("rankings.Rebuild: %w", err)
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankings.Rebuild: %w", err)
	}
	idx := indexMembers(members)

	tables, unresolved, err := s.resolveAll(ctx, matches, !dryRun)
	if err != nil {
		return nil, err
	}

	byTable := make(map[string][]club.Match)
	for _, m := range matches {
		if m.TournamentID == nil {
			continue
		}
		if table, ok := tables[*m.TournamentID]; ok {
			byTable[table] = append(byTable[table], m)
		}
	}

	ledger := club.Ledger{
		Members: Accumulate(matches),
		Boards:  make(map[string][]club.LeaderboardRow, len(byTable)),
	}
	report := &RebuildReport{
		Matches:    len(matches),
		Members:    len(ledger.Members),
		Boards:     make(map[string]int, len(byTable)),
		Unresolved: unresolved,
		DryRun:     dryRun,
	}
	for table, ms := range byTable {
		standings := Rank(entriesFromTotals(Accumulate(ms), idx), club.GenderUnspecified)
		rows := make([]club.LeaderboardRow, 0, len(standings))
		for _, st := range standings {
			if _, ok := idx[st.MemberID]; !ok {
				continue
			}
			rows = append(rows, club.LeaderboardRow{
				MemberID:     st.MemberID,
				FullName:     st.FullName,
				Points:       st.Points,
				Wins:         st.Wins,
				Losses:       st.Losses,
				GamesPlayed:  st.GamesPlayed,
				RankPosition: st.RankPosition,
			})
		}
		ledger.Boards[table] = rows
		report.Boards[table] = len(rows)
	}

	if dryRun {
		log.Info("[Dry Run] Would replace ledger", "matches", report.Matches, "members", report.Members, "boards", report.Boards)
		return report, nil
	}
	if err := s.store.ReplaceLedger(ctx, ledger); err != nil {
		return nil, fmt.Errorf("rankings.Rebuild: %w", err)
	}
	s.metrics.IncRebuilds()
	log.Info("Rebuilt ledger from match history", "matches", report.Matches, "members", report.Members, "unresolved", len(unresolved))
	return report, nil
}

// resolveAll resolves the table of every tournament referenced by matches.
func (s *Service) resolveAll(ctx context.Context, matches []club.Match, persist bool) (map[string]string, []string, error) {
	ids := make(map[string]struct{})
	for _, m := range matches {
		if m.TournamentID != nil && *m.TournamentID != "" {
			ids[*m.TournamentID] = struct{}{}
		}
	}

	var (
		mu         sync.Mutex
		tables     = make(map[string]string, len(ids))
		unresolved []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for id := range ids {
		g.Go(func() error {
			res, err := s.resolver.resolve(gctx, id, persist)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				tables[id] = res.TableName
			case errors.Is(err, ErrTableUnresolved):
				unresolved = append(unresolved, id)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("rankings: resolve tables: %w", err)
	}
	sort.Strings(unresolved)
	return tables, unresolved, nil
}

// Discrepancy is a member whose stored leaderboard row disagrees with the
// match ledger.
type Discrepancy struct {
	MemberID string     `json:"member_id"`
	Stored   club.Stats `json:"stored"`
	Ledger   club.Stats `json:"ledger"`
}

// Verify compares the leaderboard table of a tournament with a live fold of
// the finished matches of every tournament sharing that table, and returns
// every member that differs, ordered by id.
func (s *Service) Verify(ctx context.Context, tournamentID string) ([]Discrepancy, error) {
	res, err := s.resolver.Resolve(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.LeaderboardTable(res.TableName).ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("rankings.Verify: %w", err)
	}
	matches, err := s.store.ListMatches(ctx, club.MatchFilter{Status: club.MatchStatusFinished})
	if err != nil {
		return nil, fmt.Errorf("rankings.Verify: %w", err)
	}
	tables, _, err := s.resolveAll(ctx, matches, false)
	if err != nil {
		return nil, err
	}
	var onTable []club.Match
	for _, m := range matches {
		if m.TournamentID != nil && tables[*m.TournamentID] == res.TableName {
			onTable = append(onTable, m)
		}
	}
	live := Accumulate(onTable)

	stored := make(map[string]club.Stats, len(rows))
	for _, r := range rows {
		stored[r.MemberID] = r.Stats()
	}
	seen := make(map[string]struct{}, len(stored)+len(live))
	var out []Discrepancy
	check := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		if stored[id] != live[id] {
			out = append(out, Discrepancy{MemberID: id, Stored: stored[id], Ledger: live[id]})
		}
	}
	for id := range stored {
		check(id)
	}
	for id := range live {
		check(id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}
