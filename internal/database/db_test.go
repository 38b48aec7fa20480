package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"spaceship-fleet/maintenance-portal/internal/config"
)

type probe struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func TestOpen_SQLiteMigratesModels(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "portal.db"),
	}

	db, err := Open(cfg, zaptest.NewLogger(t), &probe{})
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&probe{}))

	require.NoError(t, db.Create(&probe{Code: "A"}).Error)
	err = db.Create(&probe{Code: "A"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("save: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(&pq.Error{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pq.Error{Code: "23503"}))
}
