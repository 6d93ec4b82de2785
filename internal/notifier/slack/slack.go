package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/rankings"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// maxLeaderboardLines keeps leaderboard messages under Slack's block limit.
const maxLeaderboardLines = 25

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token every message is
// logged as a dry run.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	} else {
		log.Warn("SLACK_BOT_TOKEN not set, Slack messages will only be logged")
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultNotification(result notifier.MatchResult, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatResultNotification(result), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(title string, standings []rankings.Standing, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(title, standings), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(title string, standings []rankings.Standing) (any, error) {
	return s.formatLeaderboard(title, standings), nil
}

// FormatMemberStatsResponse formats a single member's counters for a slash command response.
func (s *Notifier) FormatMemberStatsResponse(member *club.Member, query string) (any, error) {
	return s.formatMemberStats(member), nil
}

// FormatMemberNotFoundResponse formats a member not found message for a slash command response.
func (s *Notifier) FormatMemberNotFoundResponse(query string) (any, error) {
	return s.formatMemberNotFound(query), nil
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(r notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match finished! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := string(r.MatchType)
	if r.TournamentName != "" {
		details = fmt.Sprintf("%s · %s", r.TournamentName, r.MatchType)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, false, false), nil, nil))

	winners := strings.Join(r.Winners, " & ")
	losers := strings.Join(r.Losers, " & ")

	var setFields []*slack.TextBlockObject
	for i, set := range r.Sets {
		setFields = append(setFields, slack.NewTextBlockObject("plain_text", fmt.Sprintf("Set %d\n%d - %d", i+1, set[0], set[1]), true, false))
	}
	resultText := fmt.Sprintf("Result: %s beat %s 🏆", winners, losers)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), setFields, nil))

	pointsText := fmt.Sprintf("+%d points to %s, +%d points to %s", r.WinnerPoints, winners, r.LoserPoints, losers)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", pointsText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

// formatLeaderboard creates a Slack message listing ranked standings.
func (s *Notifier) formatLeaderboard(title string, standings []rankings.Standing) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s 🏆", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, st := range standings {
		if i == maxLeaderboardLines {
			more := fmt.Sprintf("…and %d more", len(standings)-maxLeaderboardLines)
			blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", more, true, false)))
			break
		}
		line := fmt.Sprintf("%d. %s %s\n> Points: %d | W/L: %d/%d | Played: %d",
			st.RankPosition,
			medal(st.RankPosition),
			st.FullName,
			st.Points,
			st.Wins,
			st.Losses,
			st.GamesPlayed,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMemberStats creates a Slack message to display a single member's counters.
func (s *Notifier) formatMemberStats(m *club.Member) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", m.FullName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	text := fmt.Sprintf("> *Points*: %d\n> *Wins*: %d\n> *Losses*: %d\n> *Matches played*: %d",
		m.Points, m.Wins, m.Losses, m.GamesPlayed())
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatMemberNotFound creates a Slack message for when no member matches a query.
func (s *Notifier) formatMemberNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a member matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
