package main

import (
	"log"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeclock.app/timeclock/config"
	"timeclock.app/timeclock/core"
	"timeclock.app/timeclock/logging"
	"timeclock.app/timeclock/store"
	"timeclock.app/timeclock/timesource"
	"timeclock.app/timeclock/web/handlers"
	"timeclock.app/timeclock/web/middlewares"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := store.Verify(cfg.DataDir); err != nil {
		logger.Fatal("data files invalid", zap.Error(err))
	}

	events := store.NewEventFile(filepath.Join(cfg.DataDir, store.EventsFileName))
	users := store.NewUserFile(filepath.Join(cfg.DataDir, store.UsersFileName))

	clock := timesource.NewHTTPClock(cfg.TimeAPIBaseURL, cfg.TimeZone)
	local := timesource.NewLocalClock(cfg.TimeZone)
	ledger := core.NewLedger(events, clock, local, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	secret := []byte(cfg.JWTSecret)
	handlers.RegisterAuth(r.Group("/auth"), users, secret, logger)

	attendance := r.Group("/attendance")
	attendance.Use(middlewares.Authentication(secret))
	handlers.RegisterAttendance(attendance, ledger, logger)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
