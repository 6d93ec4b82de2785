package http

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/scoring"
)

// MatchFinalizedHandler receives match-finalized events from the push
// subscription and announces the result.
func (s *Server) MatchFinalizedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match-finalized message", "body", string(bodyBytes))

		rawData, err := pubsub.DecodePush(bodyBytes)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		var event pubsub.MatchFinalizedEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		result := s.matchResult(r.Context(), event)
		if err := s.Notifier.SendResultNotification(result, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to notify result", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// matchResult resolves member and tournament names for an event. Unknown
// ids are shown as they are.
func (s *Server) matchResult(ctx context.Context, event pubsub.MatchFinalizedEvent) notifier.MatchResult {
	result := notifier.MatchResult{
		MatchID:      event.MatchID,
		MatchType:    club.MatchType(event.MatchType),
		WinnerPoints: scoring.WinnerPoints,
		LoserPoints:  scoring.LoserPoints,
	}
	for _, set := range event.Sets {
		result.Sets = append(result.Sets, [2]int{set.Team1, set.Team2})
	}

	names := make(map[string]string)
	ids := append(append([]string{}, event.WinnerIDs...), event.LoserIDs...)
	members, err := s.Store.GetMembers(ctx, ids)
	if err != nil {
		log.Warn("Failed to load member names", "error", err, "matchID", event.MatchID)
	}
	for _, m := range members {
		names[m.ID] = m.FullName
	}
	name := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}
	for _, id := range event.WinnerIDs {
		result.Winners = append(result.Winners, name(id))
	}
	for _, id := range event.LoserIDs {
		result.Losers = append(result.Losers, name(id))
	}

	if event.TournamentID != "" {
		if t, err := s.Store.GetTournament(ctx, event.TournamentID); err == nil {
			result.TournamentName = t.Name
		} else {
			log.Warn("Failed to load tournament", "error", err, "tournamentID", event.TournamentID)
		}
	}
	return result
}
