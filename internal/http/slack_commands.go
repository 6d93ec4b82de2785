package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/rankings"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondWithSlackText answers a slash command with a plain ephemeral text.
func respondWithSlackText(w http.ResponseWriter, text string) {
	respondWithSlackMsg(w, slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	))
}

// parseLeaderboardText splits "[tournament-id] [Male|Female]" in any order.
func parseLeaderboardText(text string) (tournamentID string, gender club.Gender, err error) {
	for _, part := range strings.Fields(text) {
		if g, gerr := rankings.ParseGender(part); gerr == nil {
			gender = g
			continue
		}
		if tournamentID != "" {
			return "", "", fmt.Errorf("unexpected argument %q", part)
		}
		tournamentID = part
	}
	return tournamentID, gender, nil
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := r.FormValue("text")
		log.Info("Received leaderboard command", "text", text)

		tournamentID, gender, err := parseLeaderboardText(text)
		if err != nil {
			respondWithSlackText(w, "Usage: `/leaderboard [tournament-id] [Male|Female]`")
			return
		}

		lb, err := s.Rankings.Rankings(r.Context(), rankings.Query{TournamentID: tournamentID, Gender: gender})
		if errors.Is(err, club.ErrTournamentNotFound) {
			respondWithSlackText(w, fmt.Sprintf("Sorry, I couldn't find tournament *%s*.", tournamentID))
			return
		}
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}

		title := "Club Leaderboard"
		if tournamentID != "" && tournamentID != rankings.AllTournaments {
			if t, err := s.Store.GetTournament(r.Context(), tournamentID); err == nil {
				title = t.Name
			}
		}
		if gender != club.GenderUnspecified {
			title = fmt.Sprintf("%s (%s)", title, gender)
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(title, lb.Standings)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// MemberStatsCommandHandler returns a handler for the /member-stats Slack command.
func (s *Server) MemberStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.FormValue("text"))
		if name == "" {
			http.Error(w, "Member name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received member stats command", "member", name)

		members, err := s.Store.SearchMembers(r.Context(), name)
		var msg any
		switch {
		case err != nil:
			log.Error("Failed to search members", "error", err)
			http.Error(w, "Failed to search members", http.StatusInternalServerError)
			return
		case len(members) == 0:
			log.Warn("Could not find member", "member", name)
			msg, err = s.Notifier.FormatMemberNotFoundResponse(name)
		default:
			msg, err = s.Notifier.FormatMemberStatsResponse(&members[0], name)
		}

		if err != nil {
			http.Error(w, "Failed to format member stats", http.StatusInternalServerError)
			log.Error("Failed to format member stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
