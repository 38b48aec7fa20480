package requests

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("maintenance request not found")

// Repository defines persistence for maintenance requests.
type Repository interface {
	Create(ctx context.Context, r *Entity) error
	Save(ctx context.Context, r *Entity) error
	Delete(ctx context.Context, r *Entity) error
	GetByID(ctx context.Context, id int64) (*Entity, error)
	List(ctx context.Context, offset, limit int) ([]Entity, error)
	ListAll(ctx context.Context) ([]Entity, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, e *Entity) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create maintenance request: %w", err)
	}
	return nil
}

func (r *GormRepository) Save(ctx context.Context, e *Entity) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("save maintenance request %d: %w", e.ID, err)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, e *Entity) error {
	if err := r.db.WithContext(ctx).Delete(e).Error; err != nil {
		return fmt.Errorf("delete maintenance request %d: %w", e.ID, err)
	}
	return nil
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*Entity, error) {
	var e Entity
	err := r.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get maintenance request %d: %w", id, err)
	}
	return &e, nil
}

// List returns a window of requests ordered by id.
func (r *GormRepository) List(ctx context.Context, offset, limit int) ([]Entity, error) {
	var out []Entity
	err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	return out, nil
}

func (r *GormRepository) ListAll(ctx context.Context) ([]Entity, error) {
	var out []Entity
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	return out, nil
}
