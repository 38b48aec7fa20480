package server

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
	"spaceship-fleet/maintenance-portal/internal/stream"
)

// Models lists the entities the portal migrates at startup.
func Models() []any {
	return []any{&spaceships.Entity{}, &repairmen.Entity{}, &requests.Entity{}}
}

// Services groups the domain services sharing one database and publisher.
type Services struct {
	Spaceships *spaceships.Service
	Repairmen  *repairmen.Service
	Requests   *requests.Service
}

func NewServices(db *gorm.DB, publisher stream.Publisher, logger *zap.Logger) Services {
	ships := spaceships.NewService(spaceships.NewRepository(db), publisher, logger.Named("spaceships"))
	crew := repairmen.NewService(repairmen.NewRepository(db), publisher, logger.Named("repairmen"))
	return Services{
		Spaceships: ships,
		Repairmen:  crew,
		Requests:   requests.NewService(requests.NewRepository(db), publisher, ships, crew, logger.Named("requests")),
	}
}
