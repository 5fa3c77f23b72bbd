package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
	"github.com/PetrosyanDev/armen-cs-teammate/services"

	"github.com/gin-gonic/gin"
)

// GetProfile retrieves and returns one stored profile
func GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}

	profile, err := profileStore.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetLeaderboard lists profiles ordered by net reputation
func GetLeaderboard(c *gin.Context) {
	profiles, err := profileStore.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].NetReputation() > profiles[j].NetReputation()
	})

	// Return minimal data for leaderboard
	type LeaderboardEntry struct {
		Rank          int            `json:"rank"`
		DisplayName   string         `json:"displayName"`
		PremierRating int            `json:"premierRating"`
		Reputation    map[string]int `json:"reputation"`
		Net           int            `json:"net"`
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, profile := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:          i + 1,
			DisplayName:   profile.DisplayName,
			PremierRating: profile.PremierRating,
			Reputation:    reputationCounts(profile),
			Net:           profile.NetReputation(),
		})
	}

	c.JSON(http.StatusOK, entries)
}

// GetCatalog returns the fixed choice sets the transport renders as buttons
func GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maps":        models.Maps,
		"roles":       models.Roles,
		"languages":   models.Languages,
		"teamTypes":   models.TeamTypes,
		"ratingKinds": models.RatingKinds,
	})
}
