package seed

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/config"
	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
)

type MockSpaceshipStore struct {
	mock.Mock
}

func (m *MockSpaceshipStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpaceshipStore) Create(ctx context.Context, req *spaceships.SpaceshipRequest) (*spaceships.Spaceship, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spaceships.Spaceship), args.Error(1)
}

type MockRepairmanStore struct {
	mock.Mock
}

func (m *MockRepairmanStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepairmanStore) Create(ctx context.Context, req *repairmen.RepairmanRequest) (*repairmen.Repairman, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repairmen.Repairman), args.Error(1)
}

func seedConfig() config.SeedConfig {
	return config.SeedConfig{Enabled: true, MinSpaceships: 10, SpaceshipCount: 5, MinRepairmen: 10, RepairmanCount: 3}
}

func TestRun_TopsUpSparseTables(t *testing.T) {
	ships := new(MockSpaceshipStore)
	crew := new(MockRepairmanStore)
	ctx := context.Background()

	ships.On("Count", ctx).Return(int64(2), nil)
	ships.On("Create", ctx, mock.Anything).Return(&spaceships.Spaceship{}, nil).Times(4)
	ships.On("Create", ctx, mock.Anything).Return(nil, apierr.SpaceshipDuplicate(1)).Once()
	crew.On("Count", ctx).Return(int64(0), nil)
	crew.On("Create", ctx, mock.Anything).Return(&repairmen.Repairman{}, nil).Times(3)

	seeder := NewSeeder(seedConfig(), ships, crew, NewGenerator(rand.New(rand.NewSource(1))), zaptest.NewLogger(t))
	res, err := seeder.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, Result{Spaceships: 4, Repairmen: 3}, res)
	ships.AssertExpectations(t)
	crew.AssertExpectations(t)
}

func TestRun_SkipsWhenEnoughData(t *testing.T) {
	ships := new(MockSpaceshipStore)
	crew := new(MockRepairmanStore)
	ctx := context.Background()

	ships.On("Count", ctx).Return(int64(10), nil)
	crew.On("Count", ctx).Return(int64(25), nil)

	seeder := NewSeeder(seedConfig(), ships, crew, NewGenerator(rand.New(rand.NewSource(1))), zaptest.NewLogger(t))
	res, err := seeder.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	ships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	crew.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRun_Disabled(t *testing.T) {
	ships := new(MockSpaceshipStore)
	cfg := seedConfig()
	cfg.Enabled = false

	res, err := NewSeeder(cfg, ships, new(MockRepairmanStore), nil, zaptest.NewLogger(t)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	ships.AssertNotCalled(t, "Count", mock.Anything)
}

func TestRun_CountFailureAborts(t *testing.T) {
	ships := new(MockSpaceshipStore)
	ctx := context.Background()
	ships.On("Count", ctx).Return(int64(0), errors.New("db down"))

	_, err := NewSeeder(seedConfig(), ships, new(MockRepairmanStore), NewGenerator(rand.New(rand.NewSource(1))), zaptest.NewLogger(t)).Run(ctx)
	assert.ErrorContains(t, err, "db down")
}

func TestGenerator_ProducesValidRequests(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		req := gen.Spaceship()
		require.NotNil(t, req.Serial)
		assert.GreaterOrEqual(t, *req.Serial, int64(0))
		require.NotNil(t, req.Type)
		assert.True(t, req.Type.IsValid())
		assert.True(t, req.Engine.FuelType.IsValid())
		assert.Regexp(t, `^SS-\d{4}$`, *req.Name)
		assert.GreaterOrEqual(t, len(req.Crew), 10)
		assert.Less(t, len(req.Crew), 20)
		assert.GreaterOrEqual(t, req.Dimensions.Length, int64(15))
		for _, member := range req.Crew {
			assert.False(t, member.BirthDate.IsZero())
			assert.GreaterOrEqual(t, member.ExperienceYears, 0)
		}

		r := gen.Repairman()
		assert.NotEmpty(t, *r.Name)
		assert.Contains(t, repairmanPositions, *r.Position)
	}
}
