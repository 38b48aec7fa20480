package requests

import (
	"time"

	"spaceship-fleet/maintenance-portal/pkg/workflows"
)

// Entity is the persisted maintenance request row.
type Entity struct {
	ID              int64            `gorm:"primaryKey;autoIncrement"`
	SpaceshipSerial int64            `gorm:"index;not null"`
	Assignee        *int64           `gorm:"index"`
	Comment         string           `gorm:"type:text"`
	Status          workflows.Status `gorm:"type:varchar(32);not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Entity) TableName() string {
	return "maintenance_request"
}

// MaintenanceRequest is the API representation.
type MaintenanceRequest struct {
	ID              int64            `json:"id"`
	SpaceshipSerial int64            `json:"spaceshipSerial"`
	Assignee        *int64           `json:"assignee"`
	Comment         string           `json:"comment"`
	Status          workflows.Status `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Key identifies a maintenance request for live updates.
func (r MaintenanceRequest) Key() int64 {
	return r.ID
}

// MaintenanceRequestRequest is the body of create and update calls. Create
// reads only spaceshipSerial and comment; update applies present fields.
type MaintenanceRequestRequest struct {
	SpaceshipSerial *int64  `json:"spaceshipSerial"`
	Assignee        *int64  `json:"assignee"`
	Comment         *string `json:"comment"`
	Status          *string `json:"status"`
}

// Transitions lists the statuses a request may move to next.
type Transitions struct {
	ID       int64              `json:"id"`
	Current  workflows.Status   `json:"current"`
	Allowed  []workflows.Status `json:"allowed"`
	Terminal bool               `json:"terminal"`
}

func toDTO(e *Entity) MaintenanceRequest {
	return MaintenanceRequest{
		ID:              e.ID,
		SpaceshipSerial: e.SpaceshipSerial,
		Assignee:        e.Assignee,
		Comment:         e.Comment,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt.UTC(),
		UpdatedAt:       e.UpdatedAt.UTC(),
	}
}
