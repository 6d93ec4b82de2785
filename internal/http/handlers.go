package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/rankings"
)

// errInvalidRequest marks request bodies that decode but cannot be used.
var errInvalidRequest = errors.New("invalid request")

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// RebuildHandler recomputes member counters and leaderboard tables from the match ledger.
func (s *Server) RebuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		log.Info("Starting ledger rebuild...", "dry_run", isDryRun)

		report, err := s.Rankings.Rebuild(r.Context(), isDryRun)
		if err != nil {
			log.Error("Failed to rebuild ledger", "error", err)
			writeError(w, err)
			return
		}

		if !isDryRun {
			event := pubsub.LedgerRebuiltEvent{
				Matches:   report.Matches,
				Members:   report.Members,
				RebuiltAt: time.Now().Unix(),
			}
			for board := range report.Boards {
				event.Boards = append(event.Boards, board)
			}
			if err := s.pubsub.SendMessage(pubsub.EventLedgerRebuilt, event); err != nil {
				log.Warn("Failed to publish ledger-rebuilt event", "error", err)
			}
			s.announceLeaderboard(r.Context())
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// announceLeaderboard posts the overall leaderboard to the channel.
// Failures are logged only.
func (s *Server) announceLeaderboard(ctx context.Context) {
	lb, err := s.Rankings.Rankings(ctx, rankings.Query{TournamentID: rankings.AllTournaments})
	if err != nil {
		log.Warn("Failed to load leaderboard for announcement", "error", err)
		return
	}
	if err := s.Notifier.SendLeaderboard("Club Leaderboard", lb.Standings, false); err != nil {
		log.Warn("Failed to post leaderboard", "error", err)
	}
}

// ProcessMatchesHandler finalizes scheduled matches that already carry decided scores.
func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		n, err := s.Processor.ProcessMatches(r.Context(), isDryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, processResponse{Finalized: n, DryRun: isDryRun})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, club.ErrMemberNotFound),
		errors.Is(err, club.ErrMatchNotFound),
		errors.Is(err, club.ErrTournamentNotFound),
		errors.Is(err, club.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, rankings.ErrInvalidGender):
		return http.StatusBadRequest
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, rankings.ErrTableUnresolved),
		processor.IsValidation(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON body into v. Failures are answered with 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		log.Warn("Failed to decode request body", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
