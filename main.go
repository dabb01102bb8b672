package main

import (
	"github.com/Holk-VB/riichiBackend/config"
	"github.com/Holk-VB/riichiBackend/logger"
	"github.com/Holk-VB/riichiBackend/monitor"
	"github.com/Holk-VB/riichiBackend/persistence"
	"github.com/Holk-VB/riichiBackend/server"
	"github.com/Holk-VB/riichiBackend/timer"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Log.Info("Database connection successful.")

	// Initialize Timer Manager
	timers := timer.NewManager(cfg.Game.TimerTick)
	defer timers.Stop()

	// Initialize Monitor
	mon := monitor.NewMonitor("riichi")
	if cfg.Server.MonitorAddress != "" {
		mon.StartServer(cfg.Server.MonitorAddress)
	}

	// Initialize Game Server
	gameServer := server.NewGameServer(
		cfg.Server.HTTPAddress,
		cfg.Server.RPCAddress,
		db,
		timers,
		cfg.Game.CallPhaseWait,
		mon,
	)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
