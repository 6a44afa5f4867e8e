package main

import (
	"log"

	"wajba-be/internal/config"
	"wajba-be/internal/dashboard"
	"wajba-be/internal/db"
	"wajba-be/internal/driver"
	"wajba-be/internal/handlers"
	"wajba-be/internal/logger"
	"wajba-be/internal/middleware"
	"wajba-be/internal/offer"
	"wajba-be/internal/order"
	"wajba-be/internal/restaurant"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	driverRepo := driver.NewRepository(database)
	driverSvc := driver.NewService(driverRepo)

	restaurantRepo := restaurant.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, driverRepo, restaurantRepo, cfg.RatePerKm)

	offerRepo := offer.NewRepository(database)
	offerSvc := offer.NewService(offerRepo)

	dashRepo := dashboard.NewRepository(database)
	dashSvc := dashboard.NewService(dashRepo)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.LoggingMiddleware())
	r.Use(middleware.AuthMiddleware([]byte(cfg.SecretKey)))

	h := handlers.New(orderSvc, driverSvc, offerSvc, dashSvc, restaurantRepo)
	h.RegisterRoutes(r)

	log.Printf("🚀 wajba API running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(r.Run(":" + cfg.AppPort))
}
