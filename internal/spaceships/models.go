package spaceships

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ShipType is the class of a spaceship.
type ShipType string

const (
	ShipTypeCargo       ShipType = "CARGO"
	ShipTypeExploration ShipType = "EXPLORATION"
	ShipTypeScout       ShipType = "SCOUT"
	ShipTypeBattle      ShipType = "BATTLE"
	ShipTypePassenger   ShipType = "PASSENGER"
)

var ShipTypes = []ShipType{ShipTypeCargo, ShipTypeExploration, ShipTypeScout, ShipTypeBattle, ShipTypePassenger}

func (t ShipType) IsValid() bool {
	for _, v := range ShipTypes {
		if t == v {
			return true
		}
	}
	return false
}

// FuelType is what an engine burns.
type FuelType string

const (
	FuelLiquidHydrogen FuelType = "LIQUID_HYDROGEN"
	FuelKerosene       FuelType = "KEROSENE"
	FuelMethane        FuelType = "METHANE"
	FuelElectric       FuelType = "ELECTRIC"
	FuelNuclear        FuelType = "NUCLEAR"
)

var FuelTypes = []FuelType{FuelLiquidHydrogen, FuelKerosene, FuelMethane, FuelElectric, FuelNuclear}

func (f FuelType) IsValid() bool {
	for _, v := range FuelTypes {
		if f == v {
			return true
		}
	}
	return false
}

// Dimensions holds lengths in metres, weight in tonnes and volume in cubic
// metres.
type Dimensions struct {
	Length int64   `json:"length"`
	Width  int64   `json:"width"`
	Height int64   `json:"height"`
	Weight float64 `json:"weight"`
	Volume float64 `json:"volume"`
}

// Engine describes the main drive. Thrust is in kilonewtons, consumption is
// per hour in units of the fuel type.
type Engine struct {
	Model           string   `json:"model"`
	Thrust          int      `json:"thrust"`
	FuelType        FuelType `json:"fuelType"`
	FuelConsumption float64  `json:"fuelConsumption"`
}

type CrewMember struct {
	FullName        string `json:"fullName"`
	Rank            string `json:"rank"`
	ExperienceYears int    `json:"experienceYears"`
	BirthDate       Date   `json:"birthDate"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date exchanged as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Entity is the persisted spaceship row. Nested structures live in JSON
// columns.
type Entity struct {
	ID              int64                           `gorm:"primaryKey;autoIncrement"`
	Serial          int64                           `gorm:"uniqueIndex;not null"`
	Manufacturer    string                          `gorm:"type:varchar(255)"`
	ManufactureDate time.Time                       `gorm:"not null"`
	Name            string                          `gorm:"type:varchar(255)"`
	Type            ShipType                        `gorm:"type:varchar(32)"`
	Dimensions      datatypes.JSONType[*Dimensions] `gorm:"column:dimensions"`
	Engine          datatypes.JSONType[*Engine]     `gorm:"column:engine"`
	Crew            datatypes.JSONSlice[CrewMember] `gorm:"column:crew"`
	MaxSpeed        int
}

func (Entity) TableName() string {
	return "spaceship"
}

// Spaceship is the API representation.
type Spaceship struct {
	Serial          int64        `json:"serial"`
	Manufacturer    string       `json:"manufacturer"`
	ManufactureDate time.Time    `json:"manufactureDate"`
	Name            string       `json:"name"`
	Type            ShipType     `json:"type"`
	Dimensions      *Dimensions  `json:"dimensions"`
	Engine          *Engine      `json:"engine"`
	Crew            []CrewMember `json:"crew"`
	MaxSpeed        int          `json:"maxSpeed"`
}

// Key identifies a spaceship for live updates.
func (s Spaceship) Key() int64 {
	return s.Serial
}

// SpaceshipRequest is the body of create and update calls. On update the
// serial comes from the path and the body's serial is ignored.
type SpaceshipRequest struct {
	Serial          *int64       `json:"serial"`
	Manufacturer    *string      `json:"manufacturer"`
	ManufactureDate *time.Time   `json:"manufactureDate"`
	Name            *string      `json:"name"`
	Type            *ShipType    `json:"type"`
	Dimensions      *Dimensions  `json:"dimensions"`
	Engine          *Engine      `json:"engine"`
	Crew            []CrewMember `json:"crew"`
	MaxSpeed        *int         `json:"maxSpeed"`
}

// RequestFrom builds the request that would recreate s.
func RequestFrom(s Spaceship) SpaceshipRequest {
	req := SpaceshipRequest{
		Serial:          &s.Serial,
		Manufacturer:    &s.Manufacturer,
		ManufactureDate: &s.ManufactureDate,
		Name:            &s.Name,
		Type:            &s.Type,
		Dimensions:      s.Dimensions,
		Engine:          s.Engine,
		MaxSpeed:        &s.MaxSpeed,
	}
	if s.Crew != nil {
		req.Crew = append([]CrewMember(nil), s.Crew...)
	}
	return req
}

func toDTO(e *Entity) Spaceship {
	ship := Spaceship{
		Serial:          e.Serial,
		Manufacturer:    e.Manufacturer,
		ManufactureDate: e.ManufactureDate.UTC(),
		Name:            e.Name,
		Type:            e.Type,
		Dimensions:      e.Dimensions.Data(),
		Engine:          e.Engine.Data(),
		MaxSpeed:        e.MaxSpeed,
	}
	if len(e.Crew) > 0 {
		ship.Crew = append([]CrewMember(nil), e.Crew...)
	}
	return ship
}

// applyRequest overwrites every mutable column of e with the request. Missing
// values reset the column, matching full-representation PUT.
func applyRequest(e *Entity, req *SpaceshipRequest) {
	e.Manufacturer = deref(req.Manufacturer)
	e.Name = deref(req.Name)
	e.Type = deref(req.Type)
	if req.ManufactureDate != nil {
		e.ManufactureDate = req.ManufactureDate.UTC()
	} else {
		e.ManufactureDate = time.Time{}
	}
	e.Dimensions = datatypes.NewJSONType(req.Dimensions)
	e.Engine = datatypes.NewJSONType(req.Engine)
	e.Crew = datatypes.NewJSONSlice(req.Crew)
	e.MaxSpeed = deref(req.MaxSpeed)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
