package repairmen

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("repairman not found")

// Repository defines persistence for repairmen.
type Repository interface {
	Create(ctx context.Context, r *Entity) error
	Save(ctx context.Context, r *Entity) error
	Delete(ctx context.Context, r *Entity) error
	GetByID(ctx context.Context, id int64) (*Entity, error)
	List(ctx context.Context, offset, limit int) ([]Entity, error)
	ListAll(ctx context.Context) ([]Entity, error)
	Count(ctx context.Context) (int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, e *Entity) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create repairman: %w", err)
	}
	return nil
}

func (r *GormRepository) Save(ctx context.Context, e *Entity) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("save repairman %d: %w", e.ID, err)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, e *Entity) error {
	if err := r.db.WithContext(ctx).Delete(e).Error; err != nil {
		return fmt.Errorf("delete repairman %d: %w", e.ID, err)
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
		return nil, fmt.Errorf("get repairman %d: %w", id, err)
	}
	return &e, nil
}

// List returns a window of repairmen ordered by id.
func (r *GormRepository) List(ctx context.Context, offset, limit int) ([]Entity, error) {
	var out []Entity
	err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list repairmen: %w", err)
	}
	return out, nil
}

func (r *GormRepository) ListAll(ctx context.Context) ([]Entity, error) {
	var out []Entity
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list repairmen: %w", err)
	}
	return out, nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Entity{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count repairmen: %w", err)
	}
	return n, nil
}
