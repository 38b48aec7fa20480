package spaceships

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/internal/stream"
)

// Service provides spaceship business logic and announces changes on the
// spaceships topic.
type Service struct {
	repo      Repository
	publisher stream.Publisher
	logger    *zap.Logger
}

func NewService(repo Repository, publisher stream.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create stores a new spaceship. Serial, manufacturer, name, manufacture
// date and type are required.
func (s *Service) Create(ctx context.Context, req *SpaceshipRequest) (*Spaceship, error) {
	if req.Serial == nil {
		return nil, apierr.SpaceshipSerialRequired()
	}
	if req.Manufacturer == nil || req.Name == nil || req.ManufactureDate == nil || req.Type == nil {
		return nil, apierr.SpaceshipRequiredFields()
	}
	if err := validateEnums(req); err != nil {
		return nil, err
	}

	entity := &Entity{Serial: *req.Serial}
	applyRequest(entity, req)

	if err := s.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apierr.SpaceshipDuplicate(*req.Serial)
		}
		return nil, err
	}

	ship := toDTO(entity)
	s.logger.Info("Spaceship created", zap.Int64("serial", ship.Serial), zap.String("name", ship.Name))
	s.publisher.Publish(stream.TopicSpaceships, ship)
	return &ship, nil
}

// Update replaces the spaceship's representation, keeping the serial from
// the path.
func (s *Service) Update(ctx context.Context, serial int64, req *SpaceshipRequest) (*Spaceship, error) {
	entity, err := s.load(ctx, serial)
	if err != nil {
		return nil, err
	}
	if err := validateEnums(req); err != nil {
		return nil, err
	}

	applyRequest(entity, req)
	entity.Serial = serial

	if err := s.repo.Save(ctx, entity); err != nil {
		return nil, err
	}

	ship := toDTO(entity)
	s.logger.Info("Spaceship updated", zap.Int64("serial", serial))
	s.publisher.Publish(stream.TopicSpaceships, ship)
	return &ship, nil
}

func (s *Service) Delete(ctx context.Context, serial int64) error {
	entity, err := s.load(ctx, serial)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entity); err != nil {
		return err
	}
	s.logger.Info("Spaceship deleted", zap.Int64("serial", serial))
	return nil
}

func (s *Service) Get(ctx context.Context, serial int64) (*Spaceship, error) {
	entity, err := s.load(ctx, serial)
	if err != nil {
		return nil, err
	}
	ship := toDTO(entity)
	return &ship, nil
}

// List returns one page of spaceships ordered by serial.
func (s *Service) List(ctx context.Context, page pagination.Page) ([]Spaceship, error) {
	entities, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	ships := make([]Spaceship, 0, len(entities))
	for i := range entities {
		ships = append(ships, toDTO(&entities[i]))
	}
	return ships, nil
}

// Names maps every known serial to the spaceship's name.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	entities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(entities))
	for _, e := range entities {
		names[e.Serial] = e.Name
	}
	return names, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) load(ctx context.Context, serial int64) (*Entity, error) {
	entity, err := s.repo.GetBySerial(ctx, serial)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.SpaceshipNotFound(serial)
	}
	return entity, err
}

func validateEnums(req *SpaceshipRequest) error {
	if req.Type != nil && !req.Type.IsValid() {
		return apierr.Validation("Unknown spaceship type " + string(*req.Type))
	}
	if req.Engine != nil && req.Engine.FuelType != "" && !req.Engine.FuelType.IsValid() {
		return apierr.Validation("Unknown fuel type " + string(req.Engine.FuelType))
	}
	return nil
}
