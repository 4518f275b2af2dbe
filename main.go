package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"healia/clinic/internal/api"
	"healia/clinic/internal/config"
	"healia/clinic/internal/database"
	"healia/clinic/internal/live"
	"healia/clinic/internal/migrations"
	"healia/clinic/internal/seed"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.LoadMedicines(db, cfg.SeedCSV)

	bus := live.NewBus(logger)
	handler := api.New(db, cfg.Secret, bus, logger)

	logger.Info().Str("port", cfg.HTTPPort).Msg("Healia clinic server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
