package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/rankings"
)

// RankingsHandler serves the overall or a tournament leaderboard.
// Query: tournament, gender, source=live.
func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveLeaderboard(w, r, r.URL.Query().Get("tournament"))
	}
}

// TournamentLeaderboardHandler serves one tournament's leaderboard.
func (s *Server) TournamentLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveLeaderboard(w, r, chi.URLParam(r, "id"))
	}
}

func (s *Server) serveLeaderboard(w http.ResponseWriter, r *http.Request, tournamentID string) {
	q := r.URL.Query()
	gender, err := rankings.ParseGender(q.Get("gender"))
	if err != nil {
		writeError(w, err)
		return
	}
	lb, err := s.Rankings.Rankings(r.Context(), rankings.Query{
		TournamentID: tournamentID,
		Gender:       gender,
		Live:         q.Get("source") == string(rankings.SourceLive),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// VerifyLeaderboardHandler lists members whose stored leaderboard row
// disagrees with the tournament's finished matches.
func (s *Server) VerifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		diffs, err := s.Rankings.Verify(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if diffs == nil {
			diffs = []rankings.Discrepancy{}
		}
		writeJSON(w, http.StatusOK, diffs)
	}
}

func (s *Server) ListMembersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := s.Store.ListMembers(r.Context())
		if err != nil {
			log.Error("Failed to get members from store", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

func (s *Server) SearchMembersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
			return
		}
		members, err := s.Store.SearchMembers(r.Context(), query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

func (s *Server) GetMemberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := s.Store.GetMember(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	}
}

func (s *Server) CreateMemberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMemberRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.FullName = strings.TrimSpace(req.FullName)
		if req.FullName == "" {
			writeError(w, fmt.Errorf("full_name is required: %w", errInvalidRequest))
			return
		}
		gender, err := rankings.ParseGender(string(req.Gender))
		if err != nil {
			writeError(w, fmt.Errorf("gender %q: %w", req.Gender, errInvalidRequest))
			return
		}

		member := &club.Member{
			ID:         uuid.NewString(),
			FullName:   req.FullName,
			Email:      req.Email,
			Gender:     gender,
			SkillLevel: req.SkillLevel,
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would create member", "name", member.FullName)
		} else if err := s.Store.AddMember(r.Context(), member); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, member)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := s.Store.ListTournaments(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tournaments)
	}
}

func (s *Server) GetTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Store.GetTournament(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		resp := tournamentResponse{Tournament: *t}
		entry, err := s.Store.LookupTable(r.Context(), t.ID)
		switch {
		case err == nil:
			resp.LeaderboardTable = entry.TableName
		case !errors.Is(err, club.ErrTableNotRegistered):
			log.Warn("Failed to look up tournament table", "tournamentID", t.ID, "error", err)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// CreateTournamentHandler stores a tournament and registers its leaderboard
// table in the same request.
func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, fmt.Errorf("name is required: %w", errInvalidRequest))
			return
		}
		switch req.Category {
		case club.CategorySingles, club.CategoryDoubles, club.CategoryMixedDoubles:
		default:
			writeError(w, fmt.Errorf("unknown category %q: %w", req.Category, errInvalidRequest))
			return
		}
		if req.Status == "" {
			req.Status = club.TournamentUpcoming
		}

		table := strings.TrimSpace(req.LeaderboardTable)
		if table == "" {
			var err error
			if table, err = rankings.TableFor(req.Category, req.Division); err != nil {
				writeError(w, err)
				return
			}
		}

		t := &club.Tournament{
			ID:       uuid.NewString(),
			Name:     req.Name,
			Category: req.Category,
			Date:     req.Date,
			Status:   req.Status,
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would create tournament", "name", t.Name, "table", table)
			writeJSON(w, http.StatusCreated, tournamentResponse{Tournament: *t, LeaderboardTable: table})
			return
		}
		if err := s.Store.CreateTournament(r.Context(), t); err != nil {
			writeError(w, err)
			return
		}
		err := s.Store.RegisterTable(r.Context(), club.TournamentTable{
			TournamentID:       t.ID,
			TableName:          table,
			TournamentName:     t.Name,
			TournamentCategory: t.Category,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Created tournament", "tournamentID", t.ID, "table", table)
		writeJSON(w, http.StatusCreated, tournamentResponse{Tournament: *t, LeaderboardTable: table})
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := club.MatchFilter{
			TournamentID: q.Get("tournament"),
			Status:       club.MatchStatus(q.Get("status")),
		}
		matches, err := s.Store.ListMatches(r.Context(), filter)
		if err != nil {
			log.Error("Failed to get matches from store", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Store.GetMatch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in processor.MatchInput
		if !decodeJSON(w, r, &in) {
			return
		}
		s.recordMatch(w, r, in)
	}
}

// CreateTournamentMatchHandler records a match in the tournament named by the path.
func (s *Server) CreateTournamentMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in processor.MatchInput
		if !decodeJSON(w, r, &in) {
			return
		}
		id := chi.URLParam(r, "id")
		in.TournamentID = &id
		s.recordMatch(w, r, in)
	}
}

func (s *Server) recordMatch(w http.ResponseWriter, r *http.Request, in processor.MatchInput) {
	m, err := s.Processor.RecordMatch(r.Context(), in, isDryRunFromContext(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMatchScoresHandler replaces a match's set scores.
func (s *Server) UpdateMatchScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in processor.ScoreInput
		if !decodeJSON(w, r, &in) {
			return
		}
		m, err := s.Processor.UpdateScores(r.Context(), chi.URLParam(r, "id"), in, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}
