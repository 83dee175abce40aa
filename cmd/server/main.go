package main

import (
	"log"

	"bustracker/internal/config"
	"bustracker/internal/controllers"
	"bustracker/internal/gemini"
	"bustracker/internal/logger"
	"bustracker/internal/mailer"
	"bustracker/internal/repository"
	"bustracker/internal/routes"
	"bustracker/internal/services"
	"bustracker/internal/telemetry"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	cfg := config.Load()

	// Connect to the database
	config.InitDB()
	db := config.GetDB()

	// Repositories
	busRepo := repository.NewBusRepository(db)
	stopRepo := repository.NewStopRepository(db)
	userRepo := repository.NewUserRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	// Telemetry stream is optional; without brokers it is a no-op.
	var publisher telemetry.Publisher = telemetry.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := telemetry.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	trackingSvc := services.NewTrackingService(busRepo, publisher)
	expenseSvc := services.NewExpenseService(expenseRepo)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	ai := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL)

	r := routes.SetupRouter(&routes.Controllers{
		Auth:    controllers.NewAuthController(userRepo, mail),
		Bus:     controllers.NewBusController(busRepo, trackingSvc),
		Stop:    controllers.NewStopController(stopRepo),
		Expense: controllers.NewExpenseController(expenseRepo, expenseSvc),
		Smart:   controllers.NewSmartController(ai),
	})

	log.Println("🚀 Server running at :" + cfg.Port)
	log.Fatal(r.Run("0.0.0.0:" + cfg.Port))
}
