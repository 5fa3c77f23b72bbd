package routes

import (
	"github.com/PetrosyanDev/armen-cs-teammate/controllers"

	"github.com/gin-gonic/gin"
)

func GetProfileRouteHandler(ctx *gin.Context) {
	controllers.GetProfile(ctx)
}

func GetLeaderboardRouteHandler(ctx *gin.Context) {
	controllers.GetLeaderboard(ctx)
}

func GetCatalogRouteHandler(ctx *gin.Context) {
	controllers.GetCatalog(ctx)
}
