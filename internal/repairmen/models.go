package repairmen

// Entity is the persisted repairman row.
type Entity struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(255);not null"`
	Position string `gorm:"type:varchar(255);not null"`
}

func (Entity) TableName() string {
	return "repairman"
}

// Repairman is the API representation.
type Repairman struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Key identifies a repairman for live updates.
func (r Repairman) Key() int64 {
	return r.ID
}

// RepairmanRequest is the body of create and update calls. Update applies
// only the fields that are present.
type RepairmanRequest struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
}

func toDTO(e *Entity) Repairman {
	return Repairman{ID: e.ID, Name: e.Name, Position: e.Position}
}
