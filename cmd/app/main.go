package main

import (
	"ProjectPoseForm/internal/config"
	"ProjectPoseForm/pkg/log"
	"github.com/joho/godotenv"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// LOG_LEVEL may come from .env, so it is loaded before the logger.
	envErr := godotenv.Load()
	logger := log.NewLogger()

	if envErr != nil {
		if !os.IsNotExist(envErr) {
			log.Fatal(log.Fields{"error": envErr.Error()}, "Error loading .env file")
		}
		log.Debug(nil, "No .env file found, using process environment")
	}

	cfg := config.LoadAnalysisConfig(logger)
	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithAnalysisConfig(cfg),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Failed to build server")
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatal(log.Fields{"error": err.Error()}, "Error starting server")
		}
	}()

	log.Info(log.Fields{
		"port":       cfg.Port,
		"workers":    cfg.Workers,
		"budget_ms":  cfg.FrameBudget.Milliseconds(),
		"queue_size": cfg.QueueSize,
	}, "Server started successfully")

	sig := <-sigChan
	log.Info(log.Fields{"signal": sig.String()}, "Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Error(log.Fields{"error": err.Error()}, "Error during shutdown")
	}
}
