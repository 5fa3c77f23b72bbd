package models

import "time"

// MatchEvent states
const (
	MatchEventArmed    = "armed"
	MatchEventFired    = "fired"
	MatchEventConsumed = "consumed"
)

// MatchEvent links one match recommendation to its pending feedback prompt.
// It lives in memory only, owned by the feedback scheduler, and is discarded
// once the rating for the top-ranked candidate is consumed.
type MatchEvent struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	RankedNames []string  `json:"rankedNames"`
	State       string    `json:"state"`
	ArmedAt     time.Time `json:"armedAt"`
	FiredAt     time.Time `json:"firedAt,omitempty"`
}

// TopCandidate returns the display name the feedback prompt will ask about.
// Positions two through four are informational only and never rated.
func (e *MatchEvent) TopCandidate() string {
	if len(e.RankedNames) == 0 {
		return ""
	}
	return e.RankedNames[0]
}

// RatingPrompt is the fixed four-choice prompt delivered to the requester
// once the feedback delay expires.
type RatingPrompt struct {
	RequesterID   string   `json:"requesterId"`
	CandidateName string   `json:"candidateName"`
	Text          string   `json:"text"`
	Choices       []string `json:"choices"`
}
