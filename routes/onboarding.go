package routes

import (
	"github.com/PetrosyanDev/armen-cs-teammate/controllers"

	"github.com/gin-gonic/gin"
)

func StartOnboardingRouteHandler(ctx *gin.Context) {
	controllers.StartOnboarding(ctx)
}

func OnboardingInputRouteHandler(ctx *gin.Context) {
	controllers.OnboardingInput(ctx)
}

func CancelOnboardingRouteHandler(ctx *gin.Context) {
	controllers.CancelOnboarding(ctx)
}
