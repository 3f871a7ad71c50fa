package app

import (
	"context"
	"fmt"
	"os"

	"go-vacation/internal/config"
	"go-vacation/internal/seed"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunSeed applies cfg.SeedFile to the company in cfg.SeedCompanyID.
func RunSeed(ctx context.Context, cfg config.Config) (seed.Result, error) {
	if _, err := uuid.Parse(cfg.SeedCompanyID); err != nil {
		return seed.Result{}, fmt.Errorf("SEED_COMPANY_ID must be a valid UUID: %w", err)
	}

	fh, err := os.Open(cfg.SeedFile)
	if err != nil {
		return seed.Result{}, err
	}
	defer fh.Close()

	file, err := seed.Load(fh)
	if err != nil {
		return seed.Result{}, err
	}

	in, err := connect(cfg, true)
	if err != nil {
		return seed.Result{}, err
	}
	defer closeQuietly(in)

	svc := newServices(in, cfg)
	return seed.Apply(ctx, file, cfg.SeedCompanyID, seed.Deps{
		Departments: svc.departments,
		Positions:   svc.positions,
		Roster:      svc.roster,
		Logger:      zap.L(),
	})
}
