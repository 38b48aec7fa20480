package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
	"spaceship-fleet/maintenance-portal/pkg/workflows"
)

func TestRequestForm_Populate(t *testing.T) {
	tests := []struct {
		name     string
		status   workflows.Status
		allowed  []workflows.Status
		selected workflows.Status
	}{
		{"blank defaults to NEW", "", []workflows.Status{workflows.StatusNew, workflows.StatusAccepted, workflows.StatusCancelled}, workflows.StatusNew},
		{"lower case input", "in_repair", []workflows.Status{workflows.StatusInRepair, workflows.StatusQualityCheck, workflows.StatusCancelled}, workflows.StatusInRepair},
		{"terminal", workflows.StatusCompleted, []workflows.Status{workflows.StatusCompleted}, workflows.StatusCompleted},
		{"unknown falls back to itself", "SCRAPPED", []workflows.Status{"SCRAPPED"}, "SCRAPPED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f RequestForm
			f.Populate(requests.MaintenanceRequest{ID: 1, Status: tt.status})
			assert.Equal(t, tt.allowed, f.AllowedStatuses)
			assert.Equal(t, tt.selected, f.Status)
		})
	}
}

func TestRequestForm_SelectStatusAndRequest(t *testing.T) {
	assignee := int64(7)
	var f RequestForm
	f.Populate(requests.MaintenanceRequest{ID: 1, SpaceshipSerial: 100, Assignee: &assignee, Comment: "Leak", Status: workflows.StatusApproval})

	require.NoError(t, f.SelectStatus(workflows.StatusWaitingParts))
	assert.Error(t, f.SelectStatus(workflows.StatusCompleted))
	assert.Equal(t, workflows.StatusWaitingParts, f.Status)

	req := f.Request()
	assert.Equal(t, int64(100), *req.SpaceshipSerial)
	assert.Equal(t, "Leak", *req.Comment)
	assert.Equal(t, "WAITING_PARTS", *req.Status)
	assert.Equal(t, int64(7), *req.Assignee)

	assignee = 8
	assert.Equal(t, int64(7), *f.Assignee)
}

func TestShipForm_RoundTrip(t *testing.T) {
	made := time.Date(2120, 5, 1, 0, 0, 0, 0, time.UTC)
	ship := spaceships.Spaceship{
		Serial:          42,
		Manufacturer:    "Weyland-Yutani",
		ManufactureDate: made,
		Name:            "Nostromo",
		Type:            spaceships.ShipTypeCargo,
		Dimensions:      &spaceships.Dimensions{Length: 243, Width: 164, Height: 72},
		Engine:          &spaceships.Engine{Model: "Yutani T7A", Thrust: 300, FuelType: spaceships.FuelNuclear},
		Crew:            []spaceships.CrewMember{{FullName: "Dallas", Rank: "Captain"}},
		MaxSpeed:        5000,
	}

	var f ShipForm
	f.Populate(ship)
	f.AddCrewMember(spaceships.CrewMember{FullName: "Ripley", Rank: "Warrant Officer"})
	assert.Len(t, ship.Crew, 1)

	req := f.Request()
	assert.Equal(t, int64(42), *req.Serial)
	assert.Equal(t, "Nostromo", *req.Name)
	assert.Equal(t, spaceships.ShipTypeCargo, *req.Type)
	assert.Equal(t, int64(243), req.Dimensions.Length)
	assert.Equal(t, spaceships.FuelNuclear, req.Engine.FuelType)
	assert.Len(t, req.Crew, 2)

	require.NoError(t, f.RemoveCrewMember(0))
	assert.Error(t, f.RemoveCrewMember(5))
	assert.Equal(t, "Ripley", f.Crew[0].FullName)
	assert.Len(t, req.Crew, 2)
}

func TestShipForm_BlankPopulate(t *testing.T) {
	var f ShipForm
	f.Populate(spaceships.Spaceship{Name: "x", Crew: []spaceships.CrewMember{{FullName: "a"}}})
	f.Populate(spaceships.Spaceship{})

	assert.Empty(t, f.Name)
	assert.Empty(t, f.Crew)
	assert.Equal(t, spaceships.Dimensions{}, f.Dimensions)
}

func TestRepairmanForm(t *testing.T) {
	var f RepairmanForm
	f.Populate(repairmen.Repairman{ID: 3, Name: "Hicks", Position: "Welder"})
	req := f.Request()
	f.Name = "changed"
	assert.Equal(t, "Hicks", *req.Name)
	assert.Equal(t, "Welder", *req.Position)
}

func TestTable_Paging(t *testing.T) {
	table := NewTable[repairmen.Repairman](2)
	assert.True(t, table.PrevDisabled())

	table.Load(pagination.Page{Number: 0, Size: 2}, []repairmen.Repairman{{ID: 1}, {ID: 2}})
	assert.False(t, table.NextDisabled())
	next, ok := table.NextPage()
	require.True(t, ok)
	assert.Equal(t, pagination.Page{Number: 1, Size: 2}, next)

	table.Load(next, []repairmen.Repairman{{ID: 3}})
	assert.True(t, table.NextDisabled())
	_, ok = table.NextPage()
	assert.False(t, ok)
	prev, ok := table.PrevPage()
	require.True(t, ok)
	assert.Equal(t, pagination.Page{Number: 0, Size: 2}, prev)

	table.Load(pagination.Page{Number: 2, Size: 2}, nil)
	assert.True(t, table.NextDisabled())
	assert.Empty(t, table.Rows())
}

func TestTable_DefaultSize(t *testing.T) {
	assert.Equal(t, pagination.DefaultSize, NewTable[repairmen.Repairman](0).Page().Size)
}
