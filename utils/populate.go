package utils

import (
	"context"
	"log"
	"time"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
	"github.com/PetrosyanDev/armen-cs-teammate/services"
)

// PopulateTestProfiles seeds a few demo profiles so matchmaking has
// candidates on a fresh install. A non-empty store is left untouched.
func PopulateTestProfiles(store services.ProfileStore) {
	ctx := context.Background()

	existing, err := store.List(ctx)
	if err != nil {
		log.Printf("Skipping profile seeding: %v", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	testProfiles := []models.Profile{
		{
			ID:             "demo-1",
			DisplayName:    "RushB_Sasha",
			PremierRating:  14800,
			WingmanRating:  12,
			FavoriteMaps:   []string{"Mirage", "Dust II"},
			Talkative:      true,
			PreferredRole:  "Entry",
			Microphone:     true,
			AvailableHours: "18:00-23:00",
			TeamType:       "Premier",
			Language:       "Russian",
			Aggressiveness: 5,
		},
		{
			ID:             "demo-2",
			DisplayName:    "QuietAWP",
			PremierRating:  15100,
			WingmanRating:  15,
			FavoriteMaps:   []string{"Mirage", "Ancient"},
			Talkative:      false,
			PreferredRole:  "AWPer",
			Microphone:     true,
			AvailableHours: "20:00-01:00",
			TeamType:       "Premier",
			Language:       "English",
			Aggressiveness: 2,
		},
		{
			ID:             "demo-3",
			DisplayName:    "CallMaker",
			PremierRating:  13900,
			WingmanRating:  10,
			FavoriteMaps:   []string{"Inferno", "Nuke"},
			Talkative:      true,
			PreferredRole:  "IGL",
			Microphone:     true,
			AvailableHours: "17:00-21:00",
			TeamType:       "Premier",
			Language:       "English",
			Aggressiveness: 3,
		},
	}

	for _, profile := range testProfiles {
		profile.LastUpdated = time.Now()
		if err := store.Put(ctx, profile); err != nil {
			log.Printf("Failed to seed profile %s: %v", profile.ID, err)
			return
		}
	}
	log.Printf("Seeded %d demo profiles", len(testProfiles))
}
