package controllers

import (
	"github.com/PetrosyanDev/armen-cs-teammate/services"
)

// Service handles shared by every controller, wired once at startup
var (
	profileStore services.ProfileStore
	onboarding   *services.OnboardingService
	matchmaking  *services.MatchmakingService
	feedback     *services.FeedbackService
)

// Init wires the controllers to the service layer
func Init(store services.ProfileStore, ob *services.OnboardingService, mm *services.MatchmakingService, fb *services.FeedbackService) {
	profileStore = store
	onboarding = ob
	matchmaking = mm
	feedback = fb
}
