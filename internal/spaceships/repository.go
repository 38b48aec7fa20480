package spaceships

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"spaceship-fleet/maintenance-portal/internal/database"
)

var (
	ErrNotFound  = errors.New("spaceship not found")
	ErrDuplicate = errors.New("spaceship serial already exists")
)

// Repository defines persistence for spaceships.
type Repository interface {
	Create(ctx context.Context, ship *Entity) error
	Save(ctx context.Context, ship *Entity) error
	Delete(ctx context.Context, ship *Entity) error
	GetBySerial(ctx context.Context, serial int64) (*Entity, error)
	List(ctx context.Context, offset, limit int) ([]Entity, error)
	ListAll(ctx context.Context) ([]Entity, error)
	Count(ctx context.Context) (int64, error)
}

// GormRepository stores spaceships through gorm.
type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, ship *Entity) error {
	if err := r.db.WithContext(ctx).Create(ship).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create spaceship %d: %w", ship.Serial, err)
	}
	return nil
}

func (r *GormRepository) Save(ctx context.Context, ship *Entity) error {
	if err := r.db.WithContext(ctx).Save(ship).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("save spaceship %d: %w", ship.Serial, err)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, ship *Entity) error {
	if err := r.db.WithContext(ctx).Delete(ship).Error; err != nil {
		return fmt.Errorf("delete spaceship %d: %w", ship.Serial, err)
	}
	return nil
}

func (r *GormRepository) GetBySerial(ctx context.Context, serial int64) (*Entity, error) {
	var ship Entity
	err := r.db.WithContext(ctx).Where("serial = ?", serial).First(&ship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get spaceship %d: %w", serial, err)
	}
	return &ship, nil
}

// List returns a window of spaceships ordered by serial.
func (r *GormRepository) List(ctx context.Context, offset, limit int) ([]Entity, error) {
	var ships []Entity
	err := r.db.WithContext(ctx).
		Order("serial ASC").
		Offset(offset).
		Limit(limit).
		Find(&ships).Error
	if err != nil {
		return nil, fmt.Errorf("list spaceships: %w", err)
	}
	return ships, nil
}

func (r *GormRepository) ListAll(ctx context.Context) ([]Entity, error) {
	var ships []Entity
	if err := r.db.WithContext(ctx).Order("serial ASC").Find(&ships).Error; err != nil {
		return nil, fmt.Errorf("list spaceships: %w", err)
	}
	return ships, nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Entity{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count spaceships: %w", err)
	}
	return n, nil
}
