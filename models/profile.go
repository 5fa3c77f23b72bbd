package models

import "time"

// Profile defines a player's teammate-finder profile
type Profile struct {
	ID             string         `bson:"_id" json:"id"`
	DisplayName    string         `bson:"displayName" json:"displayName"`
	PremierRating  int            `bson:"premierRating" json:"premierRating"`
	WingmanRating  int            `bson:"wingmanRating" json:"wingmanRating"`
	FavoriteMaps   []string       `bson:"favoriteMaps" json:"favoriteMaps"`
	Talkative      bool           `bson:"talkative" json:"talkative"`
	PreferredRole  string         `bson:"preferredRole" json:"preferredRole"`
	Microphone     bool           `bson:"microphone" json:"microphone"`
	AvailableHours string         `bson:"availableHours" json:"availableHours"`
	TeamType       string         `bson:"teamType" json:"teamType"`
	Language       string         `bson:"language" json:"language"`
	Aggressiveness int            `bson:"aggressiveness" json:"aggressiveness"`
	Reputation     map[string]int `bson:"reputation,omitempty" json:"reputation,omitempty"`
	LastUpdated    time.Time      `bson:"lastUpdated" json:"lastUpdated"`
}

// RatingKind values a teammate can be tagged with after a match
const (
	RatingVeryFriendly = "very_friendly"
	RatingGoodPlayer   = "good_player"
	RatingDidntChoose  = "didnt_choose"
	RatingNoShow       = "no_show"
)

// RatingKinds lists every valid rating in prompt order
var RatingKinds = []string{RatingVeryFriendly, RatingGoodPlayer, RatingDidntChoose, RatingNoShow}

// IsValidRatingKind reports whether kind is one of the four fixed ratings
func IsValidRatingKind(kind string) bool {
	for _, k := range RatingKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ReputationCount returns the received count for a rating kind, zero when unset
func (p *Profile) ReputationCount(kind string) int {
	if p.Reputation == nil {
		return 0
	}
	return p.Reputation[kind]
}

// NetReputation is the signed sum used for the leaderboard ordering
func (p *Profile) NetReputation() int {
	return p.ReputationCount(RatingVeryFriendly) + p.ReputationCount(RatingGoodPlayer) -
		p.ReputationCount(RatingDidntChoose) - p.ReputationCount(RatingNoShow)
}
