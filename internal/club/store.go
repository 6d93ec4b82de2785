package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

// New creates a new ClubStore.
func New(db *sqlx.DB) ClubStore {
	return &store{
		db: db,
	}
}

// AddMember inserts a member with zeroed counters.
func (s *store) AddMember(ctx context.Context, member *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO members (id, full_name, email, gender, skill_level, wins, losses, points)
		VALUES (:id, :full_name, :email, :gender, :skill_level, :wins, :losses, :points)
	`, member)
	if err != nil {
		return fmt.Errorf("club.AddMember: %w", err)
	}
	return nil
}

// GetMember returns a single member by ID.
func (s *store) GetMember(ctx context.Context, id string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m Member
	err := s.db.GetContext(ctx, &m, `
		SELECT id, full_name, email, gender, skill_level, wins, losses, points
		FROM members WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("club.GetMember: %w", err)
	}
	return &m, nil
}

// GetMembers returns the members with the given IDs. Unknown IDs are skipped.
func (s *store) GetMembers(ctx context.Context, ids []string) ([]Member, error) {
	if len(ids) == 0 {
		return []Member{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args, err := sqlx.In(`
		SELECT id, full_name, email, gender, skill_level, wins, losses, points
		FROM members WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("club.GetMembers: %w", err)
	}
	members := []Member{}
	if err := s.db.SelectContext(ctx, &members, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("club.GetMembers: %w", err)
	}
	return members, nil
}

// ListMembers returns every member, ordered by name.
func (s *store) ListMembers(ctx context.Context) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := []Member{}
	err := s.db.SelectContext(ctx, &members, `
		SELECT id, full_name, email, gender, skill_level, wins, losses, points
		FROM members ORDER BY full_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("club.ListMembers: %w", err)
	}
	return members, nil
}

// ApplyMemberDelta increments the member's counters in place.
func (s *store) ApplyMemberDelta(ctx context.Context, memberID string, delta Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE members
		SET wins = wins + ?, losses = losses + ?, points = points + ?
		WHERE id = ?
	`, delta.Wins, delta.Losses, delta.Points, memberID)
	if err != nil {
		return fmt.Errorf("club.ApplyMemberDelta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("club.ApplyMemberDelta: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("club.ApplyMemberDelta: %s: %w", memberID, ErrMemberNotFound)
	}
	return nil
}

// matchRow is the flat column layout of the matches table.
type matchRow struct {
	ID             string  `db:"id"`
	TournamentID   *string `db:"tournament_id"`
	MatchType      string  `db:"match_type"`
	Player1ID      string  `db:"player1_id"`
	Player2ID      string  `db:"player2_id"`
	Team1PartnerID *string `db:"team1_partner_id"`
	Team2PartnerID *string `db:"team2_partner_id"`
	Set1Team1      *int    `db:"set1_team1"`
	Set1Team2      *int    `db:"set1_team2"`
	Set2Team1      *int    `db:"set2_team1"`
	Set2Team2      *int    `db:"set2_team2"`
	Set3Team1      *int    `db:"set3_team1"`
	Set3Team2      *int    `db:"set3_team2"`
	WinnerID       *string `db:"winner_id"`
	Status         string  `db:"status"`
	Round          *string `db:"round"`
	MatchDate      int64   `db:"match_date"`
}

const matchColumns = `id, tournament_id, match_type, player1_id, player2_id, team1_partner_id, team2_partner_id,
	set1_team1, set1_team2, set2_team1, set2_team2, set3_team1, set3_team2, winner_id, status, round, match_date`

func toMatchRow(m *Match) matchRow {
	return matchRow{
		ID:             m.ID,
		TournamentID:   m.TournamentID,
		MatchType:      string(m.MatchType),
		Player1ID:      m.Player1ID,
		Player2ID:      m.Player2ID,
		Team1PartnerID: m.Team1PartnerID,
		Team2PartnerID: m.Team2PartnerID,
		Set1Team1:      m.Set1.Team1,
		Set1Team2:      m.Set1.Team2,
		Set2Team1:      m.Set2.Team1,
		Set2Team2:      m.Set2.Team2,
		Set3Team1:      m.Set3.Team1,
		Set3Team2:      m.Set3.Team2,
		WinnerID:       m.WinnerID,
		Status:         string(m.Status),
		Round:          m.Round,
		MatchDate:      m.MatchDate.Unix(),
	}
}

func (r matchRow) toMatch() Match {
	return Match{
		ID:             r.ID,
		TournamentID:   r.TournamentID,
		MatchType:      MatchType(r.MatchType),
		Player1ID:      r.Player1ID,
		Player2ID:      r.Player2ID,
		Team1PartnerID: r.Team1PartnerID,
		Team2PartnerID: r.Team2PartnerID,
		Set1:           SetScore{Team1: r.Set1Team1, Team2: r.Set1Team2},
		Set2:           SetScore{Team1: r.Set2Team1, Team2: r.Set2Team2},
		Set3:           SetScore{Team1: r.Set3Team1, Team2: r.Set3Team2},
		WinnerID:       r.WinnerID,
		Status:         MatchStatus(r.Status),
		Round:          r.Round,
		MatchDate:      time.Unix(r.MatchDate, 0).UTC(),
	}
}

// CreateMatch inserts a new match.
func (s *store) CreateMatch(ctx context.Context, match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES (:id, :tournament_id, :match_type, :player1_id, :player2_id, :team1_partner_id, :team2_partner_id,
			:set1_team1, :set1_team2, :set2_team1, :set2_team2, :set3_team1, :set3_team2, :winner_id, :status, :round, :match_date)
	`, toMatchRow(match))
	if err != nil {
		return fmt.Errorf("club.CreateMatch: %w", err)
	}
	return nil
}

// UpdateMatch overwrites the scores, winner and status of an existing match.
// Participants and tournament are fixed at creation.
func (s *store) UpdateMatch(ctx context.Context, match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE matches SET
			set1_team1 = :set1_team1, set1_team2 = :set1_team2,
			set2_team1 = :set2_team1, set2_team2 = :set2_team2,
			set3_team1 = :set3_team1, set3_team2 = :set3_team2,
			winner_id = :winner_id, status = :status, round = :round, match_date = :match_date
		WHERE id = :id
	`, toMatchRow(match))
	if err != nil {
		return fmt.Errorf("club.UpdateMatch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// GetMatch returns a single match by ID.
func (s *store) GetMatch(ctx context.Context, id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row matchRow
	err := s.db.GetContext(ctx, &row, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("club.GetMatch: %w", err)
	}
	m := row.toMatch()
	return &m, nil
}

// ListMatches returns matches in play order, optionally filtered.
func (s *store) ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.TournamentID != "" {
		where = append(where, "tournament_id = ?")
		args = append(args, filter.TournamentID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + matchColumns + ` FROM matches`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY match_date ASC, id ASC"

	var rows []matchRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("club.ListMatches: %w", err)
	}
	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, r.toMatch())
	}
	return matches, nil
}

type tournamentRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Category string `db:"category"`
	Date     int64  `db:"date"`
	Status   string `db:"status"`
}

func (r tournamentRow) toTournament() Tournament {
	return Tournament{
		ID:       r.ID,
		Name:     r.Name,
		Category: Category(r.Category),
		Date:     time.Unix(r.Date, 0).UTC(),
		Status:   TournamentStatus(r.Status),
	}
}

// CreateTournament inserts a new tournament.
func (s *store) CreateTournament(ctx context.Context, t *Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := t.Status
	if status == "" {
		status = TournamentUpcoming
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, category, date, status) VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Name, string(t.Category), t.Date.Unix(), string(status))
	if err != nil {
		return fmt.Errorf("club.CreateTournament: %w", err)
	}
	return nil
}

// GetTournament returns a single tournament by ID.
func (s *store) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row tournamentRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, category, date, status FROM tournaments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("club.GetTournament: %w", err)
	}
	t := row.toTournament()
	return &t, nil
}

// ListTournaments returns all tournaments, most recent first.
func (s *store) ListTournaments(ctx context.Context) ([]Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []tournamentRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, category, date, status FROM tournaments ORDER BY date DESC, name ASC`); err != nil {
		return nil, fmt.Errorf("club.ListTournaments: %w", err)
	}
	out := make([]Tournament, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toTournament())
	}
	return out, nil
}

// RegisterTable creates or replaces the registry entry for a tournament.
func (s *store) RegisterTable(ctx context.Context, entry TournamentTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO tournament_tables (tournament_id, table_name, tournament_name, tournament_category)
		VALUES (:tournament_id, :table_name, :tournament_name, :tournament_category)
		ON CONFLICT(tournament_id) DO UPDATE SET
			table_name = excluded.table_name,
			tournament_name = excluded.tournament_name,
			tournament_category = excluded.tournament_category
	`, entry)
	if err != nil {
		return fmt.Errorf("club.RegisterTable: %w", err)
	}
	return nil
}

// LookupTable returns the registry entry for a tournament.
func (s *store) LookupTable(ctx context.Context, tournamentID string) (*TournamentTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry TournamentTable
	err := s.db.GetContext(ctx, &entry, `
		SELECT tournament_id, table_name, tournament_name, tournament_category
		FROM tournament_tables WHERE tournament_id = ?
	`, tournamentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("club.LookupTable: %w", err)
	}
	return &entry, nil
}

// LeaderboardTable returns a handle scoped to the named table.
func (s *store) LeaderboardTable(name string) LeaderboardTable {
	return &leaderboardTable{s: s, name: name}
}

type leaderboardTable struct {
	s    *store
	name string
}

func (t *leaderboardTable) Name() string { return t.name }

func (t *leaderboardTable) GetRow(ctx context.Context, memberID string) (*LeaderboardRow, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var row LeaderboardRow
	err := t.s.db.GetContext(ctx, &row, `
		SELECT member_id, full_name, points, wins, losses, games_played, rank_position
		FROM leaderboard_entries WHERE board = ? AND member_id = ?
	`, t.name, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("club.GetRow %s: %w", t.name, err)
	}
	return &row, nil
}

func (t *leaderboardTable) ApplyDelta(ctx context.Context, memberID, fullName string, delta Stats) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	_, err := t.s.db.ExecContext(ctx, `
		INSERT INTO leaderboard_entries (board, member_id, full_name, points, wins, losses, games_played, rank_position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(board, member_id) DO UPDATE SET
			full_name = excluded.full_name,
			points = points + excluded.points,
			wins = wins + excluded.wins,
			losses = losses + excluded.losses,
			games_played = games_played + excluded.games_played
	`, t.name, memberID, fullName, delta.Points, delta.Wins, delta.Losses, delta.GamesPlayed, RankPending)
	if err != nil {
		return fmt.Errorf("club.ApplyDelta %s: %w", t.name, err)
	}
	return nil
}

// ListRows returns every row of the table in no particular order.
func (t *leaderboardTable) ListRows(ctx context.Context) ([]LeaderboardRow, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rows := []LeaderboardRow{}
	err := t.s.db.SelectContext(ctx, &rows, `
		SELECT member_id, full_name, points, wins, losses, games_played, rank_position
		FROM leaderboard_entries WHERE board = ?
	`, t.name)
	if err != nil {
		return nil, fmt.Errorf("club.ListRows %s: %w", t.name, err)
	}
	return rows, nil
}

// ReplaceLedger zeroes all counters, clears every leaderboard table and
// writes the recomputed ledger.
func (s *store) ReplaceLedger(ctx context.Context, ledger Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("club.ReplaceLedger: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE members SET wins = 0, losses = 0, points = 0`); err != nil {
		return fmt.Errorf("club.ReplaceLedger: reset members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("club.ReplaceLedger: clear leaderboards: %w", err)
	}
	for memberID, st := range ledger.Members {
		if _, err := tx.ExecContext(ctx, `UPDATE members SET wins = ?, losses = ?, points = ? WHERE id = ?`,
			st.Wins, st.Losses, st.Points, memberID); err != nil {
			return fmt.Errorf("club.ReplaceLedger: member %s: %w", memberID, err)
		}
	}
	for board, rows := range ledger.Boards {
		for _, r := range rows {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO leaderboard_entries (board, member_id, full_name, points, wins, losses, games_played, rank_position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, board, r.MemberID, r.FullName, r.Points, r.Wins, r.Losses, r.GamesPlayed, r.RankPosition)
			if err != nil {
				return fmt.Errorf("club.ReplaceLedger: %s row %s: %w", board, r.MemberID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("club.ReplaceLedger: commit: %w", err)
	}
	log.Info("Ledger replaced", "members", len(ledger.Members), "boards", len(ledger.Boards))
	return nil
}

// Clear wipes all club data.
func (s *store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("club.Clear: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"leaderboard_entries", "tournament_tables", "matches", "tournaments", "members"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			return fmt.Errorf("club.Clear: %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("club.Clear: commit: %w", err)
	}
	log.Info("Cleared all club data")
	return nil
}
