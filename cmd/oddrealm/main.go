package main

import (
	"os"

	"github.com/MERCY1912/oddrealm-sub000/internal/api"
	"github.com/MERCY1912/oddrealm-sub000/internal/config"
	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/logging"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load the game configuration file (required). Path may be provided
	// via ODDREALM_CONFIG or defaults to ./oddrealm_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./oddrealm_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": configPath, "hint": "create an oddrealm_config.json with 'classes' and 'enemies' arrays and optional keys: server.address, sync, requests, battles"})
	}

	// Allow the DB path to be configured via ODDREALM_DB. Default to a
	// `data/` directory for local development.
	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = "./data/oddrealm.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	handler := api.NewHandler(repo, cfg)

	startExpiryScanner(repo, cfg.BattleIdleTimeout)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteSession, handler.CreateSession)
		apiRoutes.DELETE(constants.RouteSession, handler.DeleteSession)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET("/version", api.Version)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RouteProfile, handler.GetProfile)

		protected.POST(constants.RouteRequests, handler.CreateRequest)
		protected.GET(constants.RouteRequests, handler.ListRequests)
		protected.DELETE(constants.RouteRequestByID, handler.CancelRequest)
		protected.POST(constants.RouteRequestAccept, handler.AcceptRequest)

		protected.GET(constants.RouteBattleCurrent, handler.GetCurrentBattle)
		protected.POST(constants.RouteBattleMove, handler.SubmitMove)
		protected.POST(constants.RouteBattleEnd, handler.EndBattle)

		protected.POST(constants.RouteTrainings, handler.StartTraining)
		protected.POST(constants.RouteTrainingMove, handler.TrainingMove)
	}

	// Start server on configured address
	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
