// Package seed tops up an empty or sparse database with generated data at
// startup.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/config"
	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
)

type SpaceshipStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, req *spaceships.SpaceshipRequest) (*spaceships.Spaceship, error)
}

type RepairmanStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, req *repairmen.RepairmanRequest) (*repairmen.Repairman, error)
}

// Seeder generates spaceships and repairmen when fewer than the configured
// minimum exist.
type Seeder struct {
	cfg       config.SeedConfig
	ships     SpaceshipStore
	repairmen RepairmanStore
	gen       *Generator
	logger    *zap.Logger
}

func NewSeeder(cfg config.SeedConfig, ships SpaceshipStore, repairmen RepairmanStore, gen *Generator, logger *zap.Logger) *Seeder {
	return &Seeder{cfg: cfg, ships: ships, repairmen: repairmen, gen: gen, logger: logger}
}

// Result reports how many rows Run created.
type Result struct {
	Spaceships int
	Repairmen  int
}

// Run tops up both tables. Individual create failures are logged and
// skipped; a failed count aborts.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	if !s.cfg.Enabled {
		s.logger.Info("Data seeding disabled")
		return res, nil
	}

	count, err := s.ships.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count spaceships: %w", err)
	}
	s.logger.Info("Current spaceship count", zap.Int64("count", count))
	if count < int64(s.cfg.MinSpaceships) {
		for i := 0; i < s.cfg.SpaceshipCount; i++ {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if _, err := s.ships.Create(ctx, s.gen.Spaceship()); err != nil {
				if errors.Is(err, apierr.SpaceshipDuplicate(0)) {
					s.logger.Debug("Generated serial already taken, skipping")
				} else {
					s.logger.Warn("Failed to generate spaceship", zap.Error(err))
				}
				continue
			}
			res.Spaceships++
		}
		s.logger.Info("Generated spaceships", zap.Int("count", res.Spaceships))
	}

	count, err = s.repairmen.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count repairmen: %w", err)
	}
	s.logger.Info("Current repairman count", zap.Int64("count", count))
	if count < int64(s.cfg.MinRepairmen) {
		for i := 0; i < s.cfg.RepairmanCount; i++ {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if _, err := s.repairmen.Create(ctx, s.gen.Repairman()); err != nil {
				s.logger.Warn("Failed to generate repairman", zap.Error(err))
				continue
			}
			res.Repairmen++
		}
		s.logger.Info("Generated repairmen", zap.Int("count", res.Repairmen))
	}

	return res, nil
}
