package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"doctor-appointments-api/internal/store"
	"doctor-appointments-api/pkg/logging"
)

// usage: migrate [up|down]
func main() {
	_ = godotenv.Load()

	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = store.Migrate(databaseURL)
	case "down":
		err = store.MigrateDown(databaseURL)
	default:
		logger.Fatal("unknown command, want up or down", zap.String("command", cmd))
	}
	if err != nil {
		logger.Fatal("migration failed", zap.String("command", cmd), zap.Error(err))
	}
	logger.Info("migrations complete", zap.String("command", cmd))
}
