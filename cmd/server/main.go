package main

import (
	"log"
	"os"
	"strconv"

	"github.com/PetrosyanDev/armen-cs-teammate/config"
	"github.com/PetrosyanDev/armen-cs-teammate/controllers"
	"github.com/PetrosyanDev/armen-cs-teammate/db"
	"github.com/PetrosyanDev/armen-cs-teammate/routes"
	"github.com/PetrosyanDev/armen-cs-teammate/services"
	"github.com/PetrosyanDev/armen-cs-teammate/utils"
	"github.com/PetrosyanDev/armen-cs-teammate/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Failed to load config from %s, using defaults: %v", configPath, err)
		cfg = config.Default()
	}

	// Without a database URI the service runs on the in-memory store, which
	// is enough for local development against the demo profiles.
	var store services.ProfileStore
	if cfg.Database.URI != "" {
		if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Println("Connected to MongoDB")
		defer db.Disconnect()
		store = services.NewMongoProfileStore()
	} else {
		log.Println("No database URI configured, using in-memory profile store")
		store = services.NewMemoryProfileStore()
	}

	utils.PopulateTestProfiles(store)

	onboarding := services.NewOnboardingService(store)
	matchmaking := services.NewMatchmakingService(store, cfg.Matchmaking.TopK, cfg.Matchmaking.SkillWindow)
	feedback, err := services.NewFeedbackService(store, cfg.FeedbackDelay())
	if err != nil {
		log.Fatalf("Failed to start feedback scheduler: %v", err)
	}
	defer feedback.Stop()
	feedback.SetPromptSink(websocket.PushRatingPrompt)

	controllers.Init(store, onboarding, matchmaking, feedback)

	router := setupRouter()
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.POST("/onboarding/start", routes.StartOnboardingRouteHandler)
	router.POST("/onboarding/input", routes.OnboardingInputRouteHandler)
	router.POST("/onboarding/cancel", routes.CancelOnboardingRouteHandler)

	router.POST("/match", routes.FindTeammatesRouteHandler)
	router.POST("/rate", routes.SubmitRatingRouteHandler)

	router.GET("/profile/:id", routes.GetProfileRouteHandler)
	router.GET("/leaderboard", routes.GetLeaderboardRouteHandler)
	router.GET("/catalog", routes.GetCatalogRouteHandler)

	// Push channel over which fired rating prompts reach the transport
	router.GET("/ws", websocket.PromptWebsocketHandler)

	return router
}
