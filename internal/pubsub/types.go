package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventMatchFinalized EventType = "match-finalized"
	EventLedgerRebuilt  EventType = "ledger-rebuilt"
)

// SetResult is one played set inside an event payload.
type SetResult struct {
	Team1 int `msgpack:"team1" json:"team1"`
	Team2 int `msgpack:"team2" json:"team2"`
}

// MatchFinalizedEvent is published once when a match becomes Finished.
type MatchFinalizedEvent struct {
	MatchID      string      `msgpack:"match_id" json:"match_id"`
	TournamentID string      `msgpack:"tournament_id,omitempty" json:"tournament_id,omitempty"`
	MatchType    string      `msgpack:"match_type" json:"match_type"`
	WinnerIDs    []string    `msgpack:"winner_ids" json:"winner_ids"`
	LoserIDs     []string    `msgpack:"loser_ids" json:"loser_ids"`
	Sets         []SetResult `msgpack:"sets" json:"sets"`
	FinalizedAt  int64       `msgpack:"finalized_at" json:"finalized_at"`
}

// PushEnvelope is the JSON body of a Pub/Sub push subscription request.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"`
	} `json:"message"`
}

// LedgerRebuiltEvent is published after an administrative rebuild.
type LedgerRebuiltEvent struct {
	Matches   int      `msgpack:"matches" json:"matches"`
	Members   int      `msgpack:"members" json:"members"`
	Boards    []string `msgpack:"boards" json:"boards"`
	RebuiltAt int64    `msgpack:"rebuilt_at" json:"rebuilt_at"`
}
