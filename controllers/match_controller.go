package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
	"github.com/PetrosyanDev/armen-cs-teammate/services"

	"github.com/gin-gonic/gin"
)

// FindTeammatesRequest asks for ranked teammate suggestions
type FindTeammatesRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// MatchCard is one ranked suggestion as the transport renders it
type MatchCard struct {
	DisplayName   string         `json:"displayName"`
	PremierRating int            `json:"premierRating"`
	PreferredRole string         `json:"preferredRole"`
	FavoriteMaps  []string       `json:"favoriteMaps"`
	Talkative     bool           `json:"talkative"`
	Microphone    bool           `json:"microphone"`
	Reputation    map[string]int `json:"reputation"`
	Score         float64        `json:"score"`
}

// FindTeammates ranks candidates for the requester and arms the delayed
// feedback prompt for the top suggestion
func FindTeammates(c *gin.Context) {
	var req FindTeammatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	matches, err := matchmaking.FindTeammates(c.Request.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "⚠️ You haven't set up your profile yet."})
		case errors.Is(err, services.ErrNoCandidates):
			// A normal outcome, not a failure.
			c.JSON(http.StatusOK, gin.H{"matches": []MatchCard{}, "message": "❌ No suitable teammates found."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "❌ Could not load user data."})
		}
		return
	}

	cards := make([]MatchCard, 0, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		cards = append(cards, MatchCard{
			DisplayName:   match.Profile.DisplayName,
			PremierRating: match.Profile.PremierRating,
			PreferredRole: match.Profile.PreferredRole,
			FavoriteMaps:  match.Profile.FavoriteMaps,
			Talkative:     match.Profile.Talkative,
			Microphone:    match.Profile.Microphone,
			Reputation:    reputationCounts(match.Profile),
			Score:         match.Score,
		})
		names = append(names, match.Profile.DisplayName)
	}

	if err := feedback.Arm(req.UserID, names); err != nil {
		log.Printf("Failed to arm feedback prompt for %s: %v", req.UserID, err)
	}

	c.JSON(http.StatusOK, gin.H{"matches": cards})
}

// reputationCounts materializes all four counters so the transport never
// sees a missing key
func reputationCounts(profile models.Profile) map[string]int {
	counts := make(map[string]int, len(models.RatingKinds))
	for _, kind := range models.RatingKinds {
		counts[kind] = profile.ReputationCount(kind)
	}
	return counts
}
