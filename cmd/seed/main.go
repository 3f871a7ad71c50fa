package main

import (
	"context"

	"go-vacation/internal/app"
	"go-vacation/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	res, err := app.RunSeed(context.Background(), cfg)
	if err != nil {
		logger.Fatal("run seed failed", zap.String("file", cfg.SeedFile), zap.Error(err))
	}

	logger.Info("seed finished",
		zap.Int("departments_created", res.DepartmentsCreated),
		zap.Int("positions_created", res.PositionsCreated),
		zap.Int("assigned", res.Assigned),
		zap.Int("headcounts_updated", res.HeadcountsUpdated),
	)
}
