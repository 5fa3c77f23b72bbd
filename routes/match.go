package routes

import (
	"github.com/PetrosyanDev/armen-cs-teammate/controllers"

	"github.com/gin-gonic/gin"
)

func FindTeammatesRouteHandler(ctx *gin.Context) {
	controllers.FindTeammates(ctx)
}

func SubmitRatingRouteHandler(ctx *gin.Context) {
	controllers.SubmitRating(ctx)
}
