package repairmen

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/internal/stream"
)

// Service provides repairman business logic and announces changes on the
// repairmen topic.
type Service struct {
	repo      Repository
	publisher stream.Publisher
	logger    *zap.Logger
}

func NewService(repo Repository, publisher stream.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Create requires both name and position.
func (s *Service) Create(ctx context.Context, req *RepairmanRequest) (*Repairman, error) {
	if req.Name == nil || req.Position == nil {
		return nil, apierr.RepairmanValidation()
	}
	entity := &Entity{Name: *req.Name, Position: *req.Position}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	r := toDTO(entity)
	s.logger.Info("Repairman created", zap.Int64("repairman_id", r.ID))
	s.publisher.Publish(stream.TopicRepairmen, r)
	return &r, nil
}

// Update applies the fields present in req.
func (s *Service) Update(ctx context.Context, id int64, req *RepairmanRequest) (*Repairman, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.Position != nil {
		entity.Position = *req.Position
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		return nil, err
	}

	r := toDTO(entity)
	s.logger.Info("Repairman updated", zap.Int64("repairman_id", id))
	s.publisher.Publish(stream.TopicRepairmen, r)
	return &r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entity); err != nil {
		return err
	}
	s.logger.Info("Repairman deleted", zap.Int64("repairman_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Repairman, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	r := toDTO(entity)
	return &r, nil
}

// List returns one page of repairmen ordered by id.
func (s *Service) List(ctx context.Context, page pagination.Page) ([]Repairman, error) {
	entities, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	out := make([]Repairman, 0, len(entities))
	for i := range entities {
		out = append(out, toDTO(&entities[i]))
	}
	return out, nil
}

// Names maps every repairman id to the repairman's name.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	entities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(entities))
	for _, e := range entities {
		names[e.ID] = e.Name
	}
	return names, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) load(ctx context.Context, id int64) (*Entity, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.RepairmanNotFound(id)
	}
	return entity, err
}
