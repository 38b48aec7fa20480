package requests

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/export"
	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/internal/stream"
	"spaceship-fleet/maintenance-portal/pkg/workflows"
)

// NameLookup resolves entity ids to display names.
type NameLookup interface {
	Names(ctx context.Context) (map[int64]string, error)
}

// Service provides maintenance request business logic. Status changes are
// checked against the shared transition table.
type Service struct {
	repo      Repository
	publisher stream.Publisher
	ships     NameLookup
	repairmen NameLookup
	logger    *zap.Logger
}

func NewService(repo Repository, publisher stream.Publisher, ships, repairmen NameLookup, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		ships:     ships,
		repairmen: repairmen,
		logger:    logger,
	}
}

// Create opens a request in NEW. Only spaceshipSerial and comment are read
// from req.
func (s *Service) Create(ctx context.Context, req *MaintenanceRequestRequest) (*MaintenanceRequest, error) {
	if req.SpaceshipSerial == nil {
		return nil, apierr.MaintenanceRequestSpaceshipSerialRequired()
	}
	if req.Comment == nil {
		return nil, apierr.MaintenanceRequestCommentRequired()
	}

	entity := &Entity{
		SpaceshipSerial: *req.SpaceshipSerial,
		Comment:         *req.Comment,
		Status:          workflows.StatusNew,
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	out := toDTO(entity)
	s.logger.Info("Maintenance request created",
		zap.Int64("request_id", out.ID),
		zap.Int64("spaceship_serial", out.SpaceshipSerial))
	s.publisher.Publish(stream.TopicMaintenanceRequests, out)
	return &out, nil
}

// Update applies the fields present in req. A status change must be an
// allowed transition. Requests in a terminal status reject any change; a
// save that changes nothing returns the request as stored.
func (s *Service) Update(ctx context.Context, id int64, req *MaintenanceRequestRequest) (*MaintenanceRequest, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	target := entity.Status
	if req.Status != nil {
		target, err = workflows.ParseStatus(*req.Status)
		if err != nil {
			return nil, apierr.Validation(fmt.Sprintf("Unknown maintenance status %q", *req.Status))
		}
	}

	if err := workflows.ValidateTransition(entity.Status, target); err != nil {
		var te *workflows.TransitionError
		if errors.As(err, &te) {
			return nil, apierr.MaintenanceRequestStatusTransition(te.From.String(), te.To.String())
		}
		return nil, err
	}

	if entity.Status.IsTerminal() {
		if changes(entity, req, target) {
			return nil, apierr.MaintenanceRequestImmutable(id, entity.Status.String())
		}
		out := toDTO(entity)
		return &out, nil
	}

	from := entity.Status
	entity.Status = target
	if req.SpaceshipSerial != nil {
		entity.SpaceshipSerial = *req.SpaceshipSerial
	}
	if req.Comment != nil {
		entity.Comment = *req.Comment
	}
	if req.Assignee != nil {
		assignee := *req.Assignee
		entity.Assignee = &assignee
	}

	if err := s.repo.Save(ctx, entity); err != nil {
		return nil, err
	}

	out := toDTO(entity)
	s.logger.Info("Maintenance request updated",
		zap.Int64("request_id", id),
		zap.String("from_status", from.String()),
		zap.String("to_status", target.String()))
	s.publisher.Publish(stream.TopicMaintenanceRequests, out)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entity); err != nil {
		return err
	}
	s.logger.Info("Maintenance request deleted", zap.Int64("request_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*MaintenanceRequest, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toDTO(entity)
	return &out, nil
}

// List returns one page of requests ordered by id.
func (s *Service) List(ctx context.Context, page pagination.Page) ([]MaintenanceRequest, error) {
	entities, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	out := make([]MaintenanceRequest, 0, len(entities))
	for i := range entities {
		out = append(out, toDTO(&entities[i]))
	}
	return out, nil
}

// Transitions reports where the request may move from its current status.
func (s *Service) Transitions(ctx context.Context, id int64) (*Transitions, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Transitions{
		ID:       entity.ID,
		Current:  entity.Status,
		Allowed:  workflows.AllowedTransitions(entity.Status.String()),
		Terminal: entity.Status.IsTerminal(),
	}, nil
}

var exportColumns = []string{
	"id", "spaceshipSerial", "spaceshipName", "assignee", "assigneeName",
	"status", "comment", "createdAt", "updatedAt",
}

// Export builds a table of every request with ship and assignee names
// resolved.
func (s *Service) Export(ctx context.Context) (export.Table, error) {
	entities, err := s.repo.ListAll(ctx)
	if err != nil {
		return export.Table{}, err
	}
	shipNames, err := s.ships.Names(ctx)
	if err != nil {
		return export.Table{}, fmt.Errorf("resolve spaceship names: %w", err)
	}
	repairmanNames, err := s.repairmen.Names(ctx)
	if err != nil {
		return export.Table{}, fmt.Errorf("resolve repairman names: %w", err)
	}

	table := export.Table{
		Name:    "Maintenance requests",
		Columns: exportColumns,
		Rows:    make([][]any, 0, len(entities)),
	}
	for _, e := range entities {
		var assigneeName string
		if e.Assignee != nil {
			assigneeName = repairmanNames[*e.Assignee]
		}
		table.Rows = append(table.Rows, []any{
			e.ID, e.SpaceshipSerial, shipNames[e.SpaceshipSerial], e.Assignee, assigneeName,
			e.Status, e.Comment, e.CreatedAt, e.UpdatedAt,
		})
	}
	s.logger.Info("Maintenance requests exported", zap.Int("rows", len(table.Rows)))
	return table, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Entity, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.MaintenanceRequestNotFound(id)
	}
	return entity, err
}

// changes reports whether applying req (with the parsed target status)
// would alter e.
func changes(e *Entity, req *MaintenanceRequestRequest, target workflows.Status) bool {
	if target != e.Status {
		return true
	}
	if req.SpaceshipSerial != nil && *req.SpaceshipSerial != e.SpaceshipSerial {
		return true
	}
	if req.Comment != nil && *req.Comment != e.Comment {
		return true
	}
	if req.Assignee != nil && (e.Assignee == nil || *e.Assignee != *req.Assignee) {
		return true
	}
	return false
}
